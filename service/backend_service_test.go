package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/profile-readme/readme-gen/config"
	"github.com/profile-readme/readme-gen/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "secret-key"

// setupMockBackend starts a backend answering on every path with the given status and body
func setupMockBackend(t *testing.T, status int, body string) (*httptest.Server, BackendService) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		assert.Equal(t, testAPIKey, r.Header.Get("apikey"))
		assert.Equal(t, "Bearer "+testAPIKey, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, err := w.Write([]byte(body))

		if err != nil {
			t.Error("unable to write mock backend response")
		}
	}))

	conf := config.GetDefault()
	conf.Backend.BaseURL = server.URL + "/"
	conf.Backend.APIKey = testAPIKey

	return server, NewBackendService(*conf, server.Client())
}

func TestFetchTechnologies(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		expectedItems []model.Technology
		expectedErr   error
	}{
		{
			name:   "Technologies keep the backend order",
			status: http.StatusOK,
			body:   `[{"name":"Rust","badge":"https://img/rust.svg"},{"name":"Go","badge":"https://img/go.svg","id":4}]`,
			expectedItems: []model.Technology{
				{Name: "Rust", Badge: "https://img/rust.svg"},
				{Name: "Go", Badge: "https://img/go.svg"},
			},
		},
		{
			name:          "Empty collection",
			status:        http.StatusOK,
			body:          `[]`,
			expectedItems: []model.Technology{},
		},
		{
			name:   "Duplicates are kept as-is",
			status: http.StatusOK,
			body:   `[{"name":"Go","badge":"b"},{"name":"Go","badge":"b"}]`,
			expectedItems: []model.Technology{
				{Name: "Go", Badge: "b"},
				{Name: "Go", Badge: "b"},
			},
		},
		{
			name:        "Missing badge is a parse error",
			status:      http.StatusOK,
			body:        `[{"name":"Rust"}]`,
			expectedErr: model.ErrInvalidData,
		},
		{
			name:        "Null field is a parse error",
			status:      http.StatusOK,
			body:        `[{"name":"Rust","badge":null}]`,
			expectedErr: model.ErrInvalidData,
		},
		{
			name:        "Null body is a parse error",
			status:      http.StatusOK,
			body:        `null`,
			expectedErr: model.ErrInvalidData,
		},
		{
			name:        "Object instead of array",
			status:      http.StatusOK,
			body:        `{"technologies":[]}`,
			expectedErr: model.ErrInvalidData,
		},
		{
			name:        "Wrong field type",
			status:      http.StatusOK,
			body:        `[{"name":1,"badge":"b"}]`,
			expectedErr: model.ErrInvalidData,
		},
		{
			name:        "Unauthorized",
			status:      http.StatusUnauthorized,
			body:        `{"message":"Invalid API key"}`,
			expectedErr: model.ErrUnauthorized,
		},
		{
			name:        "Unexpected status",
			status:      http.StatusInternalServerError,
			body:        `{}`,
			expectedErr: model.ErrUnexpectedStatus,
		},
		{
			name:        "Forbidden is not unauthorized",
			status:      http.StatusForbidden,
			body:        `{}`,
			expectedErr: model.ErrUnexpectedStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, svc := setupMockBackend(t, tt.status, tt.body)
			defer server.Close()

			items, err := svc.FetchTechnologies(context.Background())

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, items)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedItems, items)
		})
	}
}

func TestFetchLearningItems(t *testing.T) {
	server, svc := setupMockBackend(t, http.StatusOK, `[{"name":"Zig","badge":"https://img/zig.svg","reason":"curiosity"}]`)
	defer server.Close()

	items, err := svc.FetchLearningItems(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []model.LearningItem{{Name: "Zig", Badge: "https://img/zig.svg", Reason: "curiosity"}}, items)
}

func TestFetchLearningItemsMissingReason(t *testing.T) {
	server, svc := setupMockBackend(t, http.StatusOK, `[{"name":"Zig","badge":"https://img/zig.svg"}]`)
	defer server.Close()

	_, err := svc.FetchLearningItems(context.Background())

	assert.ErrorIs(t, err, model.ErrInvalidData)
}

func TestFetchProjects(t *testing.T) {
	server, svc := setupMockBackend(t, http.StatusOK, `[
		{"name":"readme-gen","username":"will","url":"https://github.com/will/readme-gen"},
		{"name":"blog","username":"will","url":"https://github.com/will/blog"}
	]`)
	defer server.Close()

	projects, err := svc.FetchProjects(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []model.Project{
		{Name: "readme-gen", Username: "will", URL: "https://github.com/will/readme-gen"},
		{Name: "blog", Username: "will", URL: "https://github.com/will/blog"},
	}, projects)
}

func TestFetchCollectionPaths(t *testing.T) {
	var paths []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.RequestURI())
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	conf := config.GetDefault()
	conf.Backend.BaseURL = server.URL + "/rest/v1/"
	conf.Backend.APIKey = testAPIKey
	svc := NewBackendService(*conf, server.Client())

	ctx := context.Background()
	_, err := svc.FetchTechnologies(ctx)
	require.NoError(t, err)
	_, err = svc.FetchLearningItems(ctx)
	require.NoError(t, err)
	_, err = svc.FetchProjects(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/rest/v1/technologies?select=*",
		"/rest/v1/learn?select=*",
		"/rest/v1/projects?select=*",
	}, paths)
}

func TestFetchCollectionWithoutConfig(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		apiKey  string
	}{
		{name: "Missing base url", apiKey: testAPIKey},
		{name: "Missing api key", baseURL: "http://localhost/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := config.GetDefault()
			conf.Backend.BaseURL = tt.baseURL
			conf.Backend.APIKey = tt.apiKey

			_, err := NewBackendService(*conf, nil).FetchTechnologies(context.Background())

			assert.ErrorIs(t, err, model.ErrConfig)
		})
	}
}

func TestFetchCollectionTransportError(t *testing.T) {
	server, svc := setupMockBackend(t, http.StatusOK, `[]`)
	server.Close()

	_, err := svc.FetchTechnologies(context.Background())

	assert.ErrorIs(t, err, model.ErrFetch)
}
