package config

import "testing"

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL":   "postgres://localhost/jaci",
		"REDIS_URL":      "redis://localhost:6379",
		"JWT_SECRET":     "secret",
		"ADMIN_PASSWORD": "segredo",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(baseEnv())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("port=%q", cfg.Port)
	}
	if cfg.StoreName != "Mercado do Jaci" {
		t.Fatalf("store name=%q", cfg.StoreName)
	}
	if cfg.StorePhone != "553898792631" {
		t.Fatalf("store phone=%q", cfg.StorePhone)
	}
	if cfg.CartTTL.Hours() != 168 {
		t.Fatalf("cart ttl=%v", cfg.CartTTL)
	}
	if cfg.HTTPAddr() != ":8080" {
		t.Fatalf("addr=%q", cfg.HTTPAddr())
	}
}

func TestLoadRequiredFields(t *testing.T) {
	for _, missing := range []string{"DATABASE_URL", "REDIS_URL", "JWT_SECRET"} {
		env := baseEnv()
		env[missing] = ""
		if _, err := LoadForTests(env); err == nil {
			t.Fatalf("missing %s should fail", missing)
		}
	}

	env := baseEnv()
	env["ADMIN_PASSWORD"] = ""
	if _, err := LoadForTests(env); err == nil {
		t.Fatal("missing admin credentials should fail")
	}
	env["ADMIN_PASSWORD_HASH"] = "$argon2id$fake"
	if _, err := LoadForTests(env); err != nil {
		t.Fatalf("hash alone should satisfy the check: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	env := baseEnv()
	env["PORT"] = "9090"
	env["CORS_ALLOWED_ORIGINS"] = "https://a.example, https://b.example"
	env["CART_TTL"] = "48h"
	env["LOGIN_RATE_LIMIT"] = "3"
	cfg, err := LoadForTests(env)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr() != ":9090" {
		t.Fatalf("addr=%q", cfg.HTTPAddr())
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origins=%v", cfg.CORSAllowedOrigins)
	}
	if cfg.CartTTL.Hours() != 48 {
		t.Fatalf("cart ttl=%v", cfg.CartTTL)
	}
	if cfg.LoginRateLimit != 3 {
		t.Fatalf("login rate limit=%d", cfg.LoginRateLimit)
	}
}
