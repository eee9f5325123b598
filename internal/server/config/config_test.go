package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if cfg.EndpointAddrHTTP != ":8080" {
		t.Fatalf("unexpected default addr: %q", cfg.EndpointAddrHTTP)
	}
	if cfg.AccessTokenValidityDuration != 15*time.Minute {
		t.Fatalf("unexpected access token validity: %v", cfg.AccessTokenValidityDuration)
	}
	if cfg.RefreshTokenValidityDuration != 7*24*time.Hour {
		t.Fatalf("unexpected refresh token validity: %v", cfg.RefreshTokenValidityDuration)
	}
	if cfg.SecureCookies {
		t.Fatal("secure cookies must default off for development")
	}
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-a", ":9999", "-s", "flag-secret", "-t", "30"}

	cfg := LoadConfig()
	if cfg.EndpointAddrHTTP != ":9999" {
		t.Fatalf("flag did not override addr: %q", cfg.EndpointAddrHTTP)
	}
	if cfg.SecretKey != "flag-secret" {
		t.Fatalf("flag did not override secret: %q", cfg.SecretKey)
	}
	if cfg.AccessTokenValidityDuration != 30*time.Minute {
		t.Fatalf("flag did not override access validity: %v", cfg.AccessTokenValidityDuration)
	}
	// untouched fields keep defaults
	if cfg.RefreshTokenValidityDuration != 7*24*time.Hour {
		t.Fatalf("refresh validity changed unexpectedly: %v", cfg.RefreshTokenValidityDuration)
	}
}
