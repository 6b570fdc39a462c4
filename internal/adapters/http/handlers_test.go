package httpadapter

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/griphus/internal/generator"
	"svw.info/griphus/internal/hint"
	"svw.info/griphus/internal/infrastructure/storage"
	"svw.info/griphus/internal/solver"
	"svw.info/griphus/internal/usecase"
	"svw.info/griphus/internal/validator"
)

const pushRoom = "###E###\n#.....#\n#..@bx#\n#.....#\n#######\n"

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	eng := solver.NewEngine(100_000, nil)
	uc := usecase.NewService(eng, generator.NewRoomGenerator(), validator.New(), hint.NewNextMove(eng), storage.NewFS(t.TempDir()))
	mux := http.NewServeMux()
	New(uc).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path string, body any, out any) int {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func get(t *testing.T, srv *httptest.Server, path string, out any) int {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestSolveSaveLoadFlow(t *testing.T) {
	srv := newServer(t)

	var solved solveResp
	code := post(t, srv, "/api/solve", levelReq{Name: "push", Level: pushRoom, Seed: 3}, &solved)
	require.Equal(t, http.StatusOK, code, solved.Error)
	require.NotNil(t, solved.Solution)
	assert.NotEmpty(t, solved.Solution.Moves)
	assert.Positive(t, solved.Searches)

	var saved saveResp
	code = post(t, srv, "/api/save", solved.Solution, &saved)
	require.Equal(t, http.StatusOK, code, saved.Error)
	require.NotEmpty(t, saved.ID)

	var loaded loadResp
	code = get(t, srv, "/api/load?id="+saved.ID, &loaded)
	require.Equal(t, http.StatusOK, code, loaded.Error)
	assert.Equal(t, solved.Solution.Moves, loaded.Solution.Moves)

	var listed listResp
	code = get(t, srv, "/api/list", &listed)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, listed.Solutions, 1)
	assert.Equal(t, saved.ID, listed.Solutions[0].ID)
}

func TestSolveErrors(t *testing.T) {
	srv := newServer(t)
	cases := []struct {
		name  string
		level string
		code  int
	}{
		{"unknown glyph", "###E###\n#..@?x#\n#######\n", http.StatusBadRequest},
		{"invalid level", "#######\n#..@bx#\n#######\n", http.StatusBadRequest},
		{"unsolvable", "###E###\n#..@b.#\n#######\n#x....#\n#######\n", http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var resp solveResp
			code := post(t, srv, "/api/solve", levelReq{Level: tc.level, Seed: 1}, &resp)
			assert.Equal(t, tc.code, code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestValidateAndGenerate(t *testing.T) {
	srv := newServer(t)

	var gen generateResp
	code := post(t, srv, "/api/generate", generateReq{Seed: 8, Width: 6, Height: 6, Blocks: 1}, &gen)
	require.Equal(t, http.StatusOK, code, gen.Error)
	assert.Equal(t, int64(8), gen.Seed)

	var val validateResp
	code = post(t, srv, "/api/validate", levelReq{Level: gen.Level}, &val)
	require.Equal(t, http.StatusOK, code, val.Error)
	assert.True(t, val.OK, "%v", val.Issues)

	code = post(t, srv, "/api/generate", generateReq{Width: 3, Height: 3, Blocks: 4}, &gen)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHint(t *testing.T) {
	srv := newServer(t)
	var resp hintResp
	code := post(t, srv, "/api/hint", levelReq{Level: pushRoom, Seed: 2}, &resp)
	require.Equal(t, http.StatusOK, code, resp.Error)
	assert.True(t, resp.Found)
	assert.Len(t, resp.Hint.Move, 1)
}

func TestLoadMissing(t *testing.T) {
	srv := newServer(t)
	var resp loadResp
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/load?id=nope", &resp))
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/load", &resp))
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newServer(t)
	resp, err := http.Get(srv.URL + "/api/solve")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
