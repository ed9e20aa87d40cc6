package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"mondichat-be/internal/dto"
	"mondichat-be/internal/pkg/serverutils"
	"mondichat-be/pkg/reconciler"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSnapshotService struct {
	filename string
	data     []byte
	layout   reconciler.Layout
	err      error
	assigned *dto.AssignRouteRequest
}

func (f *fakeSnapshotService) Upload(ctx context.Context, filename string, data []byte, layout reconciler.Layout) (*dto.UploadSnapshotResponse, error) {
	f.filename, f.data, f.layout = filename, data, layout
	if f.err != nil {
		return nil, f.err
	}
	return &dto.UploadSnapshotResponse{Success: true, Count: 2, BatchId: "b1"}, nil
}

func (f *fakeSnapshotService) AssignRoute(ctx context.Context, req *dto.AssignRouteRequest) (*dto.AssignRouteResponse, error) {
	f.assigned = req
	return &dto.AssignRouteResponse{UserId: req.UserId, RouteCode: req.RouteCode}, nil
}

func (f *fakeSnapshotService) Status(ctx context.Context) (*dto.SnapshotStatusResponse, error) {
	return &dto.SnapshotStatusResponse{Total: 7}, nil
}

type fakeAssistantService struct {
	userId  string
	query   *dto.QueryRequest
	webhook *dto.WebhookMessageRequest
	reset   string
}

func (f *fakeAssistantService) Query(ctx context.Context, userId string, req *dto.QueryRequest) (*dto.QueryResponse, error) {
	f.userId, f.query = userId, req
	return &dto.QueryResponse{Reply: "hola " + userId}, nil
}

func (f *fakeAssistantService) HandleWebhook(ctx context.Context, req *dto.WebhookMessageRequest) (*dto.QueryResponse, error) {
	f.webhook = req
	return &dto.QueryResponse{Reply: "ok"}, nil
}

func (f *fakeAssistantService) ResetSession(ctx context.Context, userId string) error {
	f.reset = userId
	return nil
}

func newTestApp(register func(r fiber.Router)) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	register(app.Group("/api"))
	return app
}

func decode(t *testing.T, body io.Reader, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(body).Decode(v))
}

func TestSnapshotUploadRawBody(t *testing.T) {
	svc := &fakeSnapshotService{}
	app := newTestApp(NewSnapshotController(svc).RegisterRoutes)

	req := httptest.NewRequest("POST", "/api/snapshot/v1/upload?layout=category", strings.NewReader("a,b\n1,2\n"))
	req.Header.Set("Content-Type", "text/csv")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var res dto.UploadSnapshotResponse
	decode(t, resp.Body, &res)
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, "b1", res.BatchId)
	assert.Equal(t, reconciler.LayoutCategory, svc.layout)
	assert.Equal(t, "upload.csv", svc.filename)
	assert.Equal(t, "a,b\n1,2\n", string(svc.data))
}

func TestSnapshotUploadMultipart(t *testing.T) {
	svc := &fakeSnapshotService{}
	app := newTestApp(NewSnapshotController(svc).RegisterRoutes)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "rutas.xlsx")
	require.NoError(t, err)
	_, _ = part.Write([]byte("binary"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/snapshot/v1/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "rutas.xlsx", svc.filename)
	assert.Equal(t, reconciler.LayoutSingle, svc.layout)
}

func TestSnapshotUploadErrors(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		body    string
		svcErr  error
		status  int
		message string
	}{
		{"unknown layout", "/api/snapshot/v1/upload?layout=weird", "a", nil, 400, `unknown layout "weird"`},
		{"empty body", "/api/snapshot/v1/upload", "", nil, 400, "empty body"},
		{
			"malformed", "/api/snapshot/v1/upload", "a",
			&reconciler.MalformedUploadError{Reason: "not enough rows"}, 400, "not enough rows",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeSnapshotService{err: tt.svcErr}
			app := newTestApp(NewSnapshotController(svc).RegisterRoutes)

			resp, err := app.Test(httptest.NewRequest("POST", tt.url, strings.NewReader(tt.body)))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var res dto.UploadErrorResponse
			decode(t, resp.Body, &res)
			assert.Contains(t, res.Error, tt.message)
		})
	}
}

func TestSnapshotAssignRoute(t *testing.T) {
	svc := &fakeSnapshotService{}
	app := newTestApp(NewSnapshotController(svc).RegisterRoutes)

	req := httptest.NewRequest("PUT", "/api/snapshot/v1/routes/u-1", strings.NewReader(`{"route_code":" R01 ","quota_percentage":85.5}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	require.NotNil(t, svc.assigned)
	assert.Equal(t, "u-1", svc.assigned.UserId)
	assert.Equal(t, "R01", svc.assigned.RouteCode)
	assert.Equal(t, 85.5, svc.assigned.QuotaPercentage)

	bad := httptest.NewRequest("PUT", "/api/snapshot/v1/routes/u-1", strings.NewReader(`{"quota_percentage":10}`))
	bad.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(bad)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestAssistantQueryRequiresToken(t *testing.T) {
	const secret = "s3cret"
	svc := &fakeAssistantService{}
	app := newTestApp(NewAssistantController(svc, serverutils.NewJwtMiddleware(secret), "").RegisterRoutes)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/assistant/v1/query", strings.NewReader(`{"text":"hola"}`)))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	token, err := serverutils.SignToken(secret, "u-9")
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/api/assistant/v1/query", strings.NewReader(`{"text":"lista rojos"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var res dto.QueryResponse
	decode(t, resp.Body, &res)
	assert.Equal(t, "hola u-9", res.Reply)
	assert.Equal(t, "lista rojos", svc.query.Text)
}

func TestAssistantWebhookSecret(t *testing.T) {
	svc := &fakeAssistantService{}
	app := newTestApp(NewAssistantController(svc, serverutils.NewJwtMiddleware("x"), "hook").RegisterRoutes)

	body := `{"user_id":"u-1","audio_url":"https://example.com/a.ogg"}`

	resp, err := app.Test(httptest.NewRequest("POST", "/api/webhook/v1/message", strings.NewReader(body)))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	req := httptest.NewRequest("POST", "/api/webhook/v1/message", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Secret", "hook")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	require.NotNil(t, svc.webhook)
	assert.Equal(t, "https://example.com/a.ogg", svc.webhook.AudioUrl)
}
