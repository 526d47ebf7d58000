package elasticsearch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bdeo/internal/model"
	"bdeo/pkg/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// maxHits 不分页，一次取回全部命中
const maxHits = 10000

// videosIndexMapping filename 按 keyword 存储，用于子串匹配
const videosIndexMapping = `{
	"settings": {
		"number_of_shards": 1,
		"number_of_replicas": 0
	},
	"mappings": {
		"properties": {
			"id": {"type": "long"},
			"filename": {"type": "keyword"},
			"likes": {"type": "long"}
		}
	}
}`

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

// videoDocument 索引中的视频文档
type videoDocument struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
	Likes    int64  `json:"likes"`
}

// VideoIndex videos 索引的读写
type VideoIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewVideoIndex(client *elasticsearch.Client, index string) *VideoIndex {
	if index == "" {
		index = "videos"
	}
	return &VideoIndex{client: client, index: index}
}

// EnsureIndex 确保索引存在，不存在则创建
func (x *VideoIndex) EnsureIndex(ctx context.Context) error {
	resp, err := x.client.Indices.Exists([]string{x.index}, x.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode == 200 {
		logger.Info("Elasticsearch videos index already exists", zap.String("index", x.index))
		return nil
	}

	resp, err = x.client.Indices.Create(
		x.index,
		x.client.Indices.Create.WithContext(ctx),
		x.client.Indices.Create.WithBody(strings.NewReader(videosIndexMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("create index failed: %s", resp.String())
	}

	logger.Info("Elasticsearch videos index created", zap.String("index", x.index))
	return nil
}

// buildFilenameQuery 不区分大小写的子串匹配，结果按 ID 倒序
func buildFilenameQuery(query string) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"wildcard": map[string]interface{}{
				"filename": map[string]interface{}{
					"value":            "*" + wildcardEscaper.Replace(query) + "*",
					"case_insensitive": true,
				},
			},
		},
		"_source": []string{"id"},
		"size":    maxHits,
		"sort": []interface{}{
			map[string]interface{}{"id": map[string]string{"order": "desc"}},
		},
	}
}

// SearchFilename 返回文件名包含 query 的视频 ID
func (x *VideoIndex) SearchFilename(ctx context.Context, query string) ([]int64, error) {
	body, err := json.Marshal(buildFilenameQuery(query))
	if err != nil {
		return nil, err
	}

	resp, err := x.client.Search(
		x.client.Search.WithContext(ctx),
		x.client.Search.WithIndex(x.index),
		x.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("ES search error: %s", resp.String())
	}

	return decodeSearchIDs(resp.Body)
}

func decodeSearchIDs(r io.Reader) ([]int64, error) {
	var esResp struct {
		Hits struct {
			Hits []struct {
				Source videoDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&esResp); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(esResp.Hits.Hits))
	for _, h := range esResp.Hits.Hits {
		ids = append(ids, h.Source.ID)
	}
	return ids, nil
}

// IndexVideo 写入单个视频文档
func (x *VideoIndex) IndexVideo(ctx context.Context, video *model.Video) error {
	body, err := json.Marshal(toDocument(video))
	if err != nil {
		return err
	}

	resp, err := x.client.Index(
		x.index,
		bytes.NewReader(body),
		x.client.Index.WithContext(ctx),
		x.client.Index.WithDocumentID(strconv.FormatInt(video.ID, 10)),
	)
	if err != nil {
		return fmt.Errorf("index video %d: %w", video.ID, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("index video %d failed: %s", video.ID, resp.String())
	}
	return nil
}

// BulkIndex 批量写入视频文档，返回成功与失败数量
func (x *VideoIndex) BulkIndex(ctx context.Context, videos []model.Video) (success, failed int, err error) {
	if len(videos) == 0 {
		return 0, 0, nil
	}

	body, err := buildBulkBody(x.index, videos)
	if err != nil {
		return 0, 0, err
	}

	resp, err := x.client.Bulk(bytes.NewReader(body), x.client.Bulk.WithContext(ctx))
	if err != nil {
		return 0, 0, fmt.Errorf("bulk index: %w", err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return 0, len(videos), fmt.Errorf("bulk index failed: %s", resp.String())
	}

	var bulkResp struct {
		Items []map[string]struct {
			Status int `json:"status"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&bulkResp); err != nil {
		return 0, 0, fmt.Errorf("decode bulk response: %w", err)
	}

	for _, item := range bulkResp.Items {
		for _, result := range item {
			if result.Status >= 200 && result.Status < 300 {
				success++
			} else {
				failed++
			}
		}
	}
	return success, failed, nil
}

// buildBulkBody 生成 NDJSON 格式的 bulk 请求体
func buildBulkBody(index string, videos []model.Video) ([]byte, error) {
	var buf bytes.Buffer
	for i := range videos {
		meta := map[string]interface{}{
			"index": map[string]string{
				"_index": index,
				"_id":    strconv.FormatInt(videos[i].ID, 10),
			},
		}
		metaLine, err := json.Marshal(meta)
		if err != nil {
			return nil, err
		}
		docLine, err := json.Marshal(toDocument(&videos[i]))
		if err != nil {
			return nil, err
		}
		buf.Write(metaLine)
		buf.WriteByte('\n')
		buf.Write(docLine)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func toDocument(v *model.Video) videoDocument {
	return videoDocument{ID: v.ID, Filename: v.Filename, Likes: v.Likes}
}
