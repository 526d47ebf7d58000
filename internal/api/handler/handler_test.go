package handler_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bdeo/internal/api/handler"
	"bdeo/internal/api/router"
	"bdeo/internal/config"
	"bdeo/internal/infra/database"
	"bdeo/internal/infra/filestore"
	"bdeo/internal/model"
	"bdeo/internal/notice"
	"bdeo/internal/repository"
	"bdeo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type app struct {
	t           *testing.T
	engine      *gin.Engine
	videoRepo   *repository.VideoRepository
	commentRepo *repository.CommentRepository
	cookie      *http.Cookie
}

func newApp(t *testing.T, maxUploadSize int64) *app {
	db, err := database.Open(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, database.InitSchema(db))
	t.Cleanup(func() { _ = database.Close(db) })

	videoRepo := repository.NewVideoRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	files := filestore.NewLocalStore(filepath.Join(t.TempDir(), "uploads"))

	videoService := service.NewVideoService(videoRepo, files, nil)
	commentService := service.NewCommentService(commentRepo, videoRepo, nil)
	searchService := service.NewSearchService(videoRepo, nil)

	engine, err := router.New(notice.NewMemoryStore(time.Minute), maxUploadSize, &router.Handlers{
		Video:   handler.NewVideoHandler(videoService, commentService),
		Comment: handler.NewCommentHandler(commentService),
		Search:  handler.NewSearchHandler(searchService),
		Health:  handler.NewHealthHandler(db),
	})
	require.NoError(t, err)

	return &app{t: t, engine: engine, videoRepo: videoRepo, commentRepo: commentRepo}
}

// do 发送请求并保留会话 Cookie，模拟浏览器
func (a *app) do(req *http.Request) *httptest.ResponseRecorder {
	if a.cookie != nil {
		req.AddCookie(a.cookie)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == notice.CookieName {
			a.cookie = ck
		}
	}
	return w
}

func (a *app) get(path string) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (a *app) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

func (a *app) postMultipart(path string, build func(mw *multipart.Writer)) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	build(mw)
	require.NoError(a.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return a.do(req)
}

func (a *app) upload(filename, content string) *httptest.ResponseRecorder {
	return a.postMultipart("/upload", func(mw *multipart.Writer) {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(a.t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(a.t, err)
	})
}

func (a *app) videos() []model.Video {
	videos, err := a.videoRepo.List(context.Background())
	require.NoError(a.t, err)
	return videos
}

func assertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, location, w.Header().Get("Location"))
}

func TestEndToEnd(t *testing.T) {
	a := newApp(t, 1<<20)

	w := a.upload("a.mp4", "fake video bytes")
	assertRedirect(t, w, "/")

	w = a.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "동영상 업로드 완료!")
	assert.Equal(t, 1, strings.Count(w.Body.String(), `class="video"`))
	assert.Contains(t, w.Body.String(), `href="/watch/1"`)

	videos := a.videos()
	require.Len(t, videos, 1)
	assert.Equal(t, int64(1), videos[0].ID)
	assert.Equal(t, int64(0), videos[0].Likes)

	// 提示只显示一次
	w = a.get("/")
	assert.NotContains(t, w.Body.String(), "동영상 업로드 완료!")

	assertRedirect(t, a.get("/like/1"), "/watch/1")

	w = a.get("/watch/1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<span class="likes">1</span>`)

	w = a.postForm("/comment/1", url.Values{"username": {"bob"}, "comment_text": {"nice"}})
	assertRedirect(t, w, "/watch/1")

	w = a.get("/watch/1")
	body := w.Body.String()
	assert.Equal(t, 1, strings.Count(body, `class="comment"`))
	assert.Contains(t, body, `<strong class="username">bob</strong>`)
	assert.Contains(t, body, `<span class="text">nice</span>`)
}

func TestUpload_ServeFile(t *testing.T) {
	a := newApp(t, 1<<20)
	a.upload("cat_video.mp4", "meow meow")

	w := a.get("/uploads/cat_video.mp4")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "meow meow", w.Body.String())
	assert.Equal(t, "video/mp4", w.Header().Get("Content-Type"))

	w = a.get("/uploads/missing.mp4")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpload_BackslashInFilename(t *testing.T) {
	a := newApp(t, 1<<20)

	w := a.upload(`a\b.mp4`, "bytes")
	assertRedirect(t, w, "/")

	videos := a.videos()
	require.Len(t, videos, 1)
	assert.Equal(t, `a\b.mp4`, videos[0].Filename)

	w = a.get("/uploads/" + url.PathEscape(`a\b.mp4`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bytes", w.Body.String())
}

func TestUpload_RangeRequest(t *testing.T) {
	a := newApp(t, 1<<20)
	a.upload("clip.webm", "0123456789")

	req := httptest.NewRequest(http.MethodGet, "/uploads/clip.webm", nil)
	req.Header.Set("Range", "bytes=2-5")
	w := a.do(req)

	assert.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "2345", w.Body.String())
}

func TestNotice_SurvivesErrorPage(t *testing.T) {
	a := newApp(t, 1<<20)
	a.upload("a.mp4", "x")

	w := a.get("/favicon.ico")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), "동영상 업로드 완료!")

	w = a.get("/")
	assert.Contains(t, w.Body.String(), "동영상 업로드 완료!")
}

func TestUpload_NoFile(t *testing.T) {
	a := newApp(t, 1<<20)

	w := a.postMultipart("/upload", func(mw *multipart.Writer) {
		require.NoError(t, mw.WriteField("title", "nothing"))
	})
	assertRedirect(t, w, "/upload")
	assert.Empty(t, a.videos())

	w = a.get("/upload")
	assert.Contains(t, w.Body.String(), service.ErrNoUploadFile.Error())
}

func TestUpload_EmptyFilename(t *testing.T) {
	a := newApp(t, 1<<20)

	w := a.upload("", "")
	assertRedirect(t, w, "/upload")
	assert.Empty(t, a.videos())

	w = a.get("/upload")
	assert.Contains(t, w.Body.String(), service.ErrEmptyFilename.Error())
}

func TestUpload_NotMultipart(t *testing.T) {
	a := newApp(t, 1<<20)

	w := a.postForm("/upload", url.Values{"file": {"x"}})
	assertRedirect(t, w, "/upload")
	assert.Empty(t, a.videos())
}

func TestUpload_TooLarge(t *testing.T) {
	a := newApp(t, 64)

	w := a.upload("big.mp4", strings.Repeat("x", 1024))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Empty(t, a.videos())
}

func TestLike_Sequential(t *testing.T) {
	a := newApp(t, 1<<20)
	a.upload("a.mp4", "x")

	for i := 0; i < 3; i++ {
		assertRedirect(t, a.get("/like/1"), "/watch/1")
	}

	video, err := a.videoRepo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), video.Likes)
}

func TestLike_UnknownVideoRedirects(t *testing.T) {
	a := newApp(t, 1<<20)

	assertRedirect(t, a.get("/like/42"), "/watch/42")
}

func TestWatch_UnknownVideo(t *testing.T) {
	a := newApp(t, 1<<20)
	a.upload("a.mp4", "x")
	a.get("/") // 清掉上传提示

	assertRedirect(t, a.get("/watch/99999"), "/")

	w := a.get("/")
	assert.Contains(t, w.Body.String(), service.ErrVideoNotFound.Error())
	assert.Len(t, a.videos(), 1)
}

func TestWatch_InvalidID(t *testing.T) {
	a := newApp(t, 1<<20)

	for _, path := range []string{"/watch/abc", "/watch/-1", "/like/1.5", "/no/such/page"} {
		w := a.get(path)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestComment_AnonymousNewestFirst(t *testing.T) {
	a := newApp(t, 1<<20)
	a.upload("a.mp4", "x")

	a.postForm("/comment/1", url.Values{"username": {"kim"}, "comment_text": {"first"}})
	w := a.postForm("/comment/1", url.Values{"comment_text": {"hello"}})
	assertRedirect(t, w, "/watch/1")

	comments, err := a.commentRepo.ListByVideo(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, model.AnonymousUsername, comments[0].Username)
	assert.Equal(t, "hello", comments[0].CommentText)

	body := a.get("/watch/1").Body.String()
	assert.Less(t, strings.Index(body, "hello"), strings.Index(body, "first"))
}

func TestComment_EmptyText(t *testing.T) {
	a := newApp(t, 1<<20)
	a.upload("a.mp4", "x")

	w := a.postForm("/comment/1", url.Values{"username": {"kim"}})
	assertRedirect(t, w, "/watch/1")

	comments, err := a.commentRepo.ListByVideo(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestComment_UnknownVideo(t *testing.T) {
	a := newApp(t, 1<<20)

	w := a.postForm("/comment/7", url.Values{"comment_text": {"hi"}})
	assertRedirect(t, w, "/")

	comments, err := a.commentRepo.ListByVideo(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestSearch(t *testing.T) {
	a := newApp(t, 1<<20)
	a.upload("cat_video.mp4", "x")
	a.get("/")

	w := a.get("/search")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "cat_video.mp4")

	w = a.get("/search?q=cat")
	assert.Contains(t, w.Body.String(), "cat_video.mp4")

	w = a.get("/search?q=CAT")
	assert.Contains(t, w.Body.String(), "cat_video.mp4")

	w = a.get("/search?q=dog")
	assert.NotContains(t, w.Body.String(), "cat_video.mp4")
	assert.Contains(t, w.Body.String(), "검색 결과가 없습니다.")
}

func TestHealth(t *testing.T) {
	a := newApp(t, 1<<20)

	w := a.get("/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
