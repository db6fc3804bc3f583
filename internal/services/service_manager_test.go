package services

import (
	"context"
	"testing"

	"github.com/boboboiiiw/backend-edutrack/internal/auth"
)

func TestServiceManager_Lifecycle(t *testing.T) {
	f := newFixture(t)
	sm := NewDefaultServiceManager(Dependencies{
		Repo:      f.repo,
		Publisher: f.publisher,
		Tokens:    f.tokens,
		Roles:     auth.NewRoleResolver(testDomain),
		Hasher:    f.hasher,
		Logger:    f.logger,
	})
	ctx := context.Background()

	if err := sm.HealthCheck(ctx); err == nil {
		t.Error("HealthCheck() before Initialize should fail")
	}
	if err := sm.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if sm.Auth() == nil || sm.Post() == nil || sm.Interaction() == nil || sm.Comment() == nil || sm.Export() == nil {
		t.Fatal("service getter returned nil")
	}
	if err := sm.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
	if err := sm.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if err := sm.HealthCheck(ctx); err == nil {
		t.Error("HealthCheck() after Shutdown should fail")
	}
}

func TestServiceManager_MissingDependencies(t *testing.T) {
	sm := NewDefaultServiceManager(Dependencies{Logger: testLogger()})
	if err := sm.Initialize(context.Background()); err == nil {
		t.Fatal("Initialize() without repository should fail")
	}

	defer func() {
		if recover() == nil {
			t.Error("getter on uninitialized manager should panic")
		}
	}()
	sm.Auth()
}
