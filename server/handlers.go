package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/golang-jwt/jwt"
	"github.com/gorilla/mux"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/auth"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/auth/key"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/models"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/sos"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/store"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ResponsePayload struct {
	Errors  []string    `json:"errors,omitempty"`
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

type RequestContextKey string

type DecodedJWT struct {
	Claims   *auth.SheieldTokenClaims
	ErrorMsg string
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("phone_number", func(fl validator.FieldLevel) bool {
		return isValidPhoneNumber(fl.Field().String())
	})
}

type registerPayload struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"required,phone_number"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type contactPayload struct {
	ContactName  string `json:"contact_name" validate:"required"`
	ContactPhone string `json:"contact_phone"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	Relation     string `json:"relation"`
}

func createUser(rw http.ResponseWriter, r *http.Request) {
	data := registerPayload{}
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	if errs := validate.Struct(data); errs != nil {
		writeResponse(rw, ResponsePayload{Errors: strings.Split(errs.Error(), "\n")}, http.StatusBadRequest)
		return
	}

	digest, salt, err := auth.HashPassword(data.Password, nil)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	user := models.User{
		Name:           data.Name,
		Phone:          data.Phone,
		Email:          data.Email,
		HashedPassword: digest,
		Salt:           salt,
	}

	err = dataStore.CreateUser(&user)
	if errors.Is(err, store.ErrDuplicate) {
		writeResponse(rw, ResponsePayload{Errors: []string{"phone already registered"}}, http.StatusBadRequest)
		return
	}
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(rw).Encode(ResponsePayload{Success: true, Data: user})
}

func logIn(rw http.ResponseWriter, r *http.Request) {
	data := make(map[string]string)
	json.NewDecoder(r.Body).Decode(&data)

	if data["phone"] == "" || data["password"] == "" {
		writeResponse(rw, ResponsePayload{Errors: []string{"phone & password required"}}, http.StatusBadRequest)
		return
	}

	user, err := dataStore.FindUserByPhone(data["phone"])
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	if user == nil || !auth.CheckPasswordHash(user.HashedPassword, user.Salt, data["password"]) {
		writeResponse(rw, ResponsePayload{Errors: []string{"phone/password is invalid"}}, http.StatusUnauthorized)
		return
	}

	token, err := auth.EncodeJWT(auth.SheieldTokenClaims{
		Name:  user.Name,
		Phone: user.Phone,
		StandardClaims: jwt.StandardClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
		},
	}, authKeyPair)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(rw).Encode(ResponsePayload{Success: true, Data: map[string]interface{}{
		"token": token,
		"user":  user,
	}})
}

func listContacts(rw http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(rw, r)
	if !ok {
		return
	}

	contacts, err := dataStore.ListContacts(user.Phone)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(rw).Encode(ResponsePayload{Success: true, Data: contacts})
}

func addContact(rw http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(rw, r)
	if !ok {
		return
	}

	data := contactPayload{}
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return
	}

	if errs := validate.Struct(data); errs != nil {
		writeResponse(rw, ResponsePayload{Errors: strings.Split(errs.Error(), "\n")}, http.StatusBadRequest)
		return
	}

	if data.ContactPhone == "" && data.ContactEmail == "" {
		writeResponse(rw,
			ResponsePayload{Errors: []string{"contact needs a phone number or an email"}},
			http.StatusBadRequest)
		return
	}

	contact := models.EmergencyContact{
		UserPhone:    user.Phone,
		ContactName:  data.ContactName,
		ContactPhone: data.ContactPhone,
		ContactEmail: data.ContactEmail,
		Relation:     data.Relation,
	}

	if err := dataStore.AddContact(&contact); err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(rw).Encode(ResponsePayload{Success: true, Data: contact})
}

func deleteContact(rw http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(rw, r)
	if !ok {
		return
	}

	err := dataStore.DeleteContact(user.Phone, mux.Vars(r)["id"])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeResponse(rw, ResponsePayload{Errors: []string{"contact not found"}}, http.StatusNotFound)
		return
	}
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(rw).Encode(ResponsePayload{Success: true})
}

func triggerSos(rw http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(rw, r)
	if !ok {
		return
	}

	orchestrator.Trigger(*user, func(result sos.Result) {
		logg.Infof("sos completed for user=%v: emails=%v chats=%v location=%q",
			user.Phone, result.EmailsSent, result.ChatsSent, result.Location)
	})

	writeResponse(rw, ResponsePayload{Success: true, Data: "sos triggered"}, http.StatusAccepted)
}

func listSosLogs(rw http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(rw, r)
	if !ok {
		return
	}

	entries, err := dataStore.ListSosLogs(user.Phone)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(rw).Encode(ResponsePayload{Success: true, Data: entries})
}

func healthCheck(rw http.ResponseWriter, r *http.Request) {
	json.NewEncoder(rw).Encode(ResponsePayload{Success: true})
}

func jwks(rw http.ResponseWriter, r *http.Request) {
	keyPairJWK, err := authKeyPair.JWK()
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(rw).Encode(key.ExportJWKAsJWKS(keyPairJWK))
}

// requestUser resolves the authenticated user record for the {uid} in the
// request path. Auth middleware has already verified the token matches it.
func requestUser(rw http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, err := dataStore.FindUserByID(mux.Vars(r)["uid"])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeResponse(rw, ResponsePayload{Errors: []string{"user not found"}}, http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
		return nil, false
	}

	return user, true
}
