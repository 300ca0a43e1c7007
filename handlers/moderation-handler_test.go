package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gosim-wonderland/wonderland-server/models"
)

func adminToken(t *testing.T, env *testEnv) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"password": "letmein"})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var out struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if !out.Success || out.Token == "" {
		t.Fatalf("login envelope = %+v", out)
	}
	return out.Token
}

func moderate(t *testing.T, env *testEnv, method, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	return resp
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	env := newTestEnv(t, stubGateway{})

	body, _ := json.Marshal(map[string]string{"password": "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestModerationRequiresToken(t *testing.T) {
	env := newTestEnv(t, stubGateway{})
	photo, _ := env.photos.Create(context.Background(), "/orig/a.jpg", "", "")

	resp := moderate(t, env, http.MethodPost, "/api/photos/"+photo.ID+"/approve", "")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}

	// the photo is untouched
	got, _ := env.photos.Get(context.Background(), photo.ID)
	if got.Status != models.StatusPending {
		t.Fatalf("status = %q, want pending", got.Status)
	}
}

func TestApproveHappyPath(t *testing.T) {
	env := newTestEnv(t, stubGateway{})
	token := adminToken(t, env)
	photo, _ := env.photos.Create(context.Background(), "/orig/a.jpg", "", "")

	resp := moderate(t, env, http.MethodPost, "/api/photos/"+photo.ID+"/approve", token)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	got, _ := env.photos.Get(context.Background(), photo.ID)
	if got.Status != models.StatusApproved || got.ApprovedAt == nil {
		t.Fatalf("row = %+v", got)
	}
}

func TestSecondDecisionIs404(t *testing.T) {
	env := newTestEnv(t, stubGateway{})
	token := adminToken(t, env)
	photo, _ := env.photos.Create(context.Background(), "/orig/a.jpg", "", "")

	if resp := moderate(t, env, http.MethodPost, "/api/photos/"+photo.ID+"/approve", token); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("first approve status = %d", resp.StatusCode)
	}

	// approve again
	resp := moderate(t, env, http.MethodPost, "/api/photos/"+photo.ID+"/approve", token)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("second approve status = %d, want 404", resp.StatusCode)
	}

	// reject after approve
	resp = moderate(t, env, http.MethodDelete, "/api/photos/"+photo.ID, token)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("reject-after-approve status = %d, want 404", resp.StatusCode)
	}

	got, _ := env.photos.Get(context.Background(), photo.ID)
	if got.Status != models.StatusApproved {
		t.Fatalf("status = %q, approved must stick", got.Status)
	}
}

func TestRejectUnknownPhoto(t *testing.T) {
	env := newTestEnv(t, stubGateway{})
	token := adminToken(t, env)

	resp := moderate(t, env, http.MethodDelete, "/api/photos/does-not-exist", token)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
