package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/app/models/dto"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
	"github.com/yigit/schooladmin/internal/testutil/apitest"
)

func subjects(c *Client) *Resource[models.Subject, dto.CreateSubjectRequest, dto.UpdateSubjectRequest] {
	return NewResource[models.Subject, dto.CreateSubjectRequest, dto.UpdateSubjectRequest](c, "/subjects")
}

func TestResourceAgainstAPI(t *testing.T) {
	ctx := context.Background()
	env := apitest.New(t)
	c := New(env.Server.URL)
	res := subjects(c)

	_, err := res.Create(ctx, dto.CreateSubjectRequest{Name: "Algorithms", Credits: 3})
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))

	token, err := c.Login(ctx, apitest.AdminEmail, apitest.AdminPassword)
	require.NoError(t, err)
	assert.Equal(t, token.AccessToken, c.Token())

	created, err := res.Create(ctx, dto.CreateSubjectRequest{Name: "Algorithms", Credits: 3})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = res.Create(ctx, dto.CreateSubjectRequest{Name: "algorithms", Credits: 4})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Equal(t, "name", apperrors.FieldOf(err))

	name := "Advanced Algorithms"
	updated, err := res.Update(ctx, created.ID, dto.UpdateSubjectRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	list, err := res.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, res.Delete(ctx, created.ID))
	err = res.Delete(ctx, created.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	semesters, err := c.Semesters(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, semesters)
}

func TestDecodeErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   apperrors.Kind
		field  string
		msg    string
	}{
		{"validation", 400, `{"success":false,"error":{"code":"VAL_001","message":"credits is required","field":"credits"}}`, apperrors.KindValidation, "credits", "credits is required"},
		{"forbidden", 403, `{"success":false,"error":{"code":"FORBIDDEN","message":"Insufficient permissions"}}`, apperrors.KindAuthorization, "", "Insufficient permissions"},
		{"not found", 404, `{"success":false,"error":{"code":"RES_001","message":"course 5 not found"}}`, apperrors.KindNotFound, "", "course 5 not found"},
		{"conflict", 409, `{"success":false,"error":{"code":"RES_002","message":"taken","field":"email","details":{"field":"email","value":"a@b.co"}}}`, apperrors.KindConflict, "email", "taken"},
		{"in use", 409, `{"success":false,"error":{"code":"RES_004","message":"subject is used by one or more courses and cannot be deleted"}}`, apperrors.KindConflict, "", "subject is used by one or more courses and cannot be deleted"},
		{"proxy error", 502, `<html>bad gateway</html>`, apperrors.KindInternal, "", "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := subjects(New(srv.URL)).List(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperrors.KindOf(err))
			assert.Equal(t, tt.field, apperrors.FieldOf(err))
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestTimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := subjects(New(srv.URL, WithTimeout(50*time.Millisecond))).List(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNetwork, apperrors.KindOf(err))
	assert.Equal(t, "Network error, please try again", err.Error())
	assert.ErrorIs(t, err, apperrors.ErrNetwork)
}

func TestBearerTokenSent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer srv.Close()

	list, err := subjects(New(srv.URL, WithToken("abc"))).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, "Bearer abc", got)
}
