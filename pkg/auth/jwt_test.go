package auth

import (
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	config := &JWTConfig{Secret: "test-secret", ExpireTime: time.Hour}

	token, err := GenerateJWT(map[string]any{"userID": "u-100", "username": "editor"}, config)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	claims, err := ParseToken(token, config)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims["userID"] != "u-100" || claims["username"] != "editor" {
		t.Errorf("claims = %v", claims)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	config := &JWTConfig{Secret: "test-secret", ExpireTime: time.Hour}
	token, err := GenerateJWT(map[string]any{"userID": "u-100"}, config)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	if _, err := ParseToken(token, &JWTConfig{Secret: "other-secret"}); err == nil {
		t.Errorf("token signed with different secret should not parse")
	}
}

func TestParseTokenExpired(t *testing.T) {
	config := &JWTConfig{Secret: "test-secret"}
	token, err := GenerateJWT(map[string]any{
		"userID": "u-100",
		"exp":    time.Now().Add(-time.Minute).Unix(),
	}, config)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	if _, err := ParseToken(token, config); err == nil {
		t.Errorf("expired token should not parse")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	config := &JWTConfig{Secret: "test-secret"}
	if _, err := ParseToken("not-a-token", config); err == nil {
		t.Errorf("garbage input should not parse")
	}
}
