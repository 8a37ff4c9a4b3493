package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drawspace/drawspace-backend/internal/board/domain"
	"github.com/drawspace/drawspace-backend/internal/board/repository"
	"github.com/drawspace/drawspace-backend/internal/board/service"
	"github.com/drawspace/drawspace-backend/internal/geometry"
)

func setupRouter(t *testing.T) (*gin.Engine, *repository.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	handler := NewHandler(service.NewBoardService(store))

	r := gin.New()
	handler.RegisterRoutes(r.Group("/api/v1"))
	return r, store
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBoard(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/boards", gin.H{"hostId": "u1", "hostName": "alice"})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		BoardID string `json:"boardId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.BoardID)
}

func TestCreateBoardInvalidBody(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/boards", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateBoardMissingHost(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/boards", gin.H{"hostId": "", "hostName": "alice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid data")
}

func TestGetBoard(t *testing.T) {
	r, store := setupRouter(t)

	b := domain.NewBoard("u1", "alice")
	b.Shapes = domain.ShapeList{
		&domain.Primitive{ID: "p1", Type: domain.ShapeLine,
			Start: geometry.Point{X: 0, Y: 0}, End: geometry.Point{X: 10, Y: 10}},
	}
	require.NoError(t, store.Create(context.Background(), b))

	w := doJSON(r, http.MethodGet, "/api/v1/boards/"+b.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Shapes domain.ShapeList `json:"shapes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Shapes, 1)
	assert.Equal(t, "p1", resp.Shapes[0].ShapeID())
}

func TestGetBoardNotFound(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/api/v1/boards/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "board not found")
}

func TestJoinBoard(t *testing.T) {
	r, store := setupRouter(t)

	b := domain.NewBoard("u1", "alice")
	require.NoError(t, store.Create(context.Background(), b))

	w := doJSON(r, http.MethodPost, "/api/v1/boards/"+b.ID+"/join", gin.H{"userId": "u2", "userName": "bob"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "shapes")
}

func TestJoinBoardValidation(t *testing.T) {
	r, store := setupRouter(t)

	b := domain.NewBoard("u1", "alice")
	require.NoError(t, store.Create(context.Background(), b))

	w := doJSON(r, http.MethodPost, "/api/v1/boards/"+b.ID+"/join", gin.H{"userId": "", "userName": "bob"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/boards/missing/join", gin.H{"userId": "u2", "userName": "bob"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListBoards(t *testing.T) {
	r, store := setupRouter(t)

	require.NoError(t, store.Create(context.Background(), domain.NewBoard("u1", "alice")))
	require.NoError(t, store.Create(context.Background(), domain.NewBoard("u2", "bob")))

	w := doJSON(r, http.MethodGet, "/api/v1/boards", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Boards []json.RawMessage `json:"boards"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Boards, 2)
}

func TestExportPDF(t *testing.T) {
	r, store := setupRouter(t)

	b := domain.NewBoard("u1", "alice")
	require.NoError(t, store.Create(context.Background(), b))

	w := doJSON(r, http.MethodGet, "/api/v1/boards/"+b.ID+"/export.pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}
