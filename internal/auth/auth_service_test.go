package auth

import (
	"testing"
	"time"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc, err := NewAuthService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("构造服务失败: %v", err)
	}

	token, err := svc.GenerateToken("user-1", "demo@example.com", "Demo User")
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("校验令牌失败: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "demo@example.com" || claims.Name != "Demo User" {
		t.Fatalf("声明内容不对: %+v", claims)
	}
}

func TestValidateToken_RejectsWrongSecret(t *testing.T) {
	issuer, _ := NewAuthService("secret-a", time.Hour)
	verifier, _ := NewAuthService("secret-b", time.Hour)

	token, err := issuer.GenerateToken("user-1", "demo@example.com", "Demo User")
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}
	if _, err := verifier.ValidateToken(token); err == nil {
		t.Fatalf("不同密钥签发的令牌应被拒绝")
	}
}

func TestValidateToken_RejectsExpired(t *testing.T) {
	svc, _ := NewAuthService("test-secret", time.Nanosecond)

	token, err := svc.GenerateToken("user-1", "demo@example.com", "Demo User")
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := svc.ValidateToken(token); err == nil {
		t.Fatalf("过期令牌应被拒绝")
	}
}

func TestNewAuthService_Validation(t *testing.T) {
	if _, err := NewAuthService("", time.Hour); err == nil {
		t.Fatalf("空密钥应报错")
	}
	if _, err := NewAuthService("secret", 0); err == nil {
		t.Fatalf("零有效期应报错")
	}
}
