package server

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/auth/key"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/store"
	"github.com/stretchr/testify/assert"
)

func setupTestHandlers(t *testing.T) {
	t.Helper()

	var err error
	dataStore, err = store.New("test-pass-phrase", t.TempDir())
	if err != nil {
		t.Fatalf("could not open test store: %v", err)
	}
	t.Cleanup(dataStore.Stop)

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("could not generate signing key: %v", err)
	}
	authKeyPair = &key.KeyPair{
		Kid:        "test-key-id",
		PrivateKey: privateKey,
		PublicKey:  &privateKey.PublicKey,
	}
}

func postJSON(handler http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest("POST", target, strings.NewReader(body)))

	return rr
}

func TestCreateUser(t *testing.T) {
	setupTestHandlers(t)

	payload := `{"name":"asha","phone":"9876543210","email":"asha@example.com","password":"stay-safe"}`

	rr := postJSON(createUser, "/v1/users", payload)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"phone":"9876543210"`)

	// Credential material must never surface in a response
	assert.NotContains(t, rr.Body.String(), "hashed_password")
	assert.NotContains(t, rr.Body.String(), "salt")
}

func TestCreateUserWithDuplicatePhone(t *testing.T) {
	setupTestHandlers(t)

	payload := `{"name":"asha","phone":"9876543210","email":"asha@example.com","password":"stay-safe"}`
	assert.Equal(t, http.StatusOK, postJSON(createUser, "/v1/users", payload).Code)

	other := `{"name":"imposter","phone":"9876543210","email":"other@example.com","password":"pw"}`
	rr := postJSON(createUser, "/v1/users", other)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "phone already registered")
}

func TestCreateUserWithInvalidPhone(t *testing.T) {
	setupTestHandlers(t)

	rr := postJSON(createUser, "/v1/users",
		`{"name":"asha","phone":"12345","email":"asha@example.com","password":"stay-safe"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogIn(t *testing.T) {
	setupTestHandlers(t)

	payload := `{"name":"asha","phone":"9876543210","email":"asha@example.com","password":"stay-safe"}`
	assert.Equal(t, http.StatusOK, postJSON(createUser, "/v1/users", payload).Code)

	rr := postJSON(logIn, "/v1/login", `{"phone":"9876543210","password":"stay-safe"}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	response := ResponsePayload{}
	assert.Nil(t, json.Unmarshal(rr.Body.Bytes(), &response))
	data := response.Data.(map[string]interface{})
	assert.NotEmpty(t, data["token"])
}

func TestLogInWithWrongCredentials(t *testing.T) {
	setupTestHandlers(t)

	payload := `{"name":"asha","phone":"9876543210","email":"asha@example.com","password":"stay-safe"}`
	assert.Equal(t, http.StatusOK, postJSON(createUser, "/v1/users", payload).Code)

	rr := postJSON(logIn, "/v1/login", `{"phone":"9876543210","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = postJSON(logIn, "/v1/login", `{"phone":"0000000000","password":"stay-safe"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestDeleteContactThatDoesNotExist(t *testing.T) {
	setupTestHandlers(t)

	payload := `{"name":"asha","phone":"9876543210","email":"asha@example.com","password":"stay-safe"}`
	assert.Equal(t, http.StatusOK, postJSON(createUser, "/v1/users", payload).Code)

	req := httptest.NewRequest("DELETE", "/v1/users/1/contacts/99", nil)
	req = mux.SetURLVars(req, map[string]string{"uid": "1", "id": "99"})

	rr := httptest.NewRecorder()
	deleteContact(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "contact not found")
}
