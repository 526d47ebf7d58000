package elasticsearch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"bdeo/internal/model"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	body   string
}

// fakeCluster 模拟 Elasticsearch 的最小 HTTP 接口
type fakeCluster struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{method: r.Method, path: r.URL.Path, body: string(body)})
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodHead && r.URL.Path == "/videos":
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodPut && r.URL.Path == "/videos":
		_, _ = io.WriteString(w, `{"acknowledged":true,"index":"videos"}`)
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_, _ = io.WriteString(w, `{"hits":{"hits":[{"_source":{"id":3}},{"_source":{"id":1}}]}}`)
	case strings.HasPrefix(r.URL.Path, "/videos/_doc/"):
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	case r.URL.Path == "/_bulk":
		_, _ = io.WriteString(w, `{"errors":true,"items":[
			{"index":{"_id":"1","status":201}},
			{"index":{"_id":"2","status":400}}
		]}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{}`)
	}
}

func (f *fakeCluster) find(method, path string) (recordedRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if r.method == method && r.path == path {
			return r, true
		}
	}
	return recordedRequest{}, false
}

func newFakeIndex(t *testing.T) (*VideoIndex, *fakeCluster) {
	cluster := &fakeCluster{}
	srv := httptest.NewServer(cluster)
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewVideoIndex(client, "videos"), cluster
}

func TestVideoIndex_RoundTrip(t *testing.T) {
	index, cluster := newFakeIndex(t)
	ctx := context.Background()

	require.NoError(t, index.EnsureIndex(ctx))
	created, ok := cluster.find(http.MethodPut, "/videos")
	require.True(t, ok)
	assert.Contains(t, created.body, `"filename": {"type": "keyword"}`)

	ids, err := index.SearchFilename(ctx, "cat")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1}, ids)

	require.NoError(t, index.IndexVideo(ctx, &model.Video{ID: 7, Filename: "cat.mp4", Likes: 2}))
	doc, ok := cluster.find(http.MethodPut, "/videos/_doc/7")
	require.True(t, ok)
	assert.JSONEq(t, `{"id":7,"filename":"cat.mp4","likes":2}`, doc.body)

	success, failed, err := index.BulkIndex(ctx, []model.Video{
		{ID: 1, Filename: "a.mp4"},
		{ID: 2, Filename: "b.mp4"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, success)
	assert.Equal(t, 1, failed)
}

func TestVideoIndex_SearchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"bad query"}`)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	_, err = NewVideoIndex(client, "videos").SearchFilename(context.Background(), "cat")
	assert.Error(t, err)
}
