package learnovasdk

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoginOpensSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/login":
			var req LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "ada@example.com", req.Email)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(LoginResponse{
				AccessToken: "tok",
				TokenType:   "bearer",
				User:        UserResponse{ID: "u1", Email: req.Email},
			})
		case "/v1/me":
			require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(UserResponse{ID: "u1", FullName: "Ada"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/")
	session, err := client.Login(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)
	require.Equal(t, "tok", session.AccessToken())
	require.Equal(t, "u1", session.User.ID)

	me, err := session.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Ada", me.FullName)
}

func TestErrorEnvelopeBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorCodeGone, ErrorDescription: "Invitation has expired"})
	}))
	defer srv.Close()

	session := NewClient(srv.URL).NewSession("tok", UserResponse{})
	_, err := session.AcceptInvitation(context.Background(), "raw")
	require.Error(t, err)
	require.True(t, IsCode(err, ErrorCodeGone))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusGone, apiErr.StatusCode)
	require.Equal(t, "Invitation has expired", apiErr.Description)
}

func TestNonJSONErrorFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).GetReadiness(context.Background())
	require.True(t, IsCode(err, ErrorCodeServerError))
	require.Contains(t, err.Error(), "502")
}

func TestUploadRosterSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/courses/c1/invitations/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "Email", r.FormValue("email_column"))
		require.Empty(t, r.FormValue("sheet_name"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		require.Equal(t, "roster.csv", hdr.Filename)
		require.Equal(t, "Email\na@example.com\n", string(data))

		_ = json.NewEncoder(w).Encode(UploadInvitationsResponse{CourseID: "c1", Inserted: 1})
	}))
	defer srv.Close()

	session := NewClient(srv.URL).NewSession("tok", UserResponse{})
	res, err := session.UploadRoster(context.Background(), "c1", "roster.csv",
		[]byte("Email\na@example.com\n"), "", "Email")
	require.NoError(t, err)
	require.Equal(t, 1, res.Inserted)
}
