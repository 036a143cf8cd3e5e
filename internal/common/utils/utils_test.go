package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(&JWTClaims{
		UserID:    42,
		Username:  "alice",
		Type:      TokenTypeAccess,
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}, "secret")
	require.NoError(t, err)

	claims, err := ValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, TokenTypeAccess, claims.Type)
}

func TestValidateJWT_Rejects(t *testing.T) {
	valid := func() *JWTClaims {
		return &JWTClaims{UserID: 1, Type: TokenTypeAccess, ExpiresAt: time.Now().Add(time.Hour).Unix()}
	}

	wrongSecret, err := GenerateJWT(valid(), "other")
	require.NoError(t, err)
	_, err = ValidateJWT(wrongSecret, "secret")
	assert.Error(t, err)

	expiredClaims := valid()
	expiredClaims.ExpiresAt = time.Now().Add(-time.Minute).Unix()
	expired, err := GenerateJWT(expiredClaims, "secret")
	require.NoError(t, err)
	_, err = ValidateJWT(expired, "secret")
	assert.Error(t, err)

	_, err = ValidateJWT("not-a-token", "secret")
	assert.Error(t, err)
}

func TestValidateJWT_NumericUserID(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 7, "type": "access"})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	claims, err := ValidateJWT(signed, "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)

	bad := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "abc", "type": "access"})
	signed, err = bad.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ValidateJWT(signed, "secret")
	assert.ErrorIs(t, err, ErrInvalidUserID)
}

type sampleDTO struct {
	MatchID int64    `json:"matchId" validate:"required,gt=0"`
	Action  string   `json:"action" validate:"required,oneof=like unlike"`
	Lat     *float64 `json:"lat" validate:"required,latitude"`
}

func TestValidateStruct(t *testing.T) {
	lat := 13.7
	assert.NoError(t, ValidateStruct(&sampleDTO{MatchID: 1, Action: "like", Lat: &lat}))

	err := ValidateStruct(&sampleDTO{Action: "poke"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matchId is required")
	assert.Contains(t, err.Error(), "action must be one of: like, unlike")
	assert.Contains(t, err.Error(), "lat is required")

	bad := 123.0
	err = ValidateStruct(&sampleDTO{MatchID: 1, Action: "like", Lat: &bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lat must be a valid latitude")
}

func TestRespondWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithJSON(rec, http.StatusCreated, map[string]int{"n": 1})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"n":1}`, rec.Body.String())

	rec = httptest.NewRecorder()
	RespondWithError(rec, http.StatusConflict, "you already liked this user")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"you already liked this user"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	RespondWithJSON(rec, http.StatusOK, map[string]interface{}{"bad": func() {}})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
