package bedrock

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/nupi-ai/plugin-llm-bedrock/internal/config"
)

func TestNewFactoryUsesStubWhenForced(t *testing.T) {
	cfg := config.Config{ListenAddr: "bufconn", UseStubClient: true}
	factory := NewFactory(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	client, err := factory(context.Background(), Credentials{Region: "us-east-1"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, ok := client.(*StubClient); !ok {
		t.Fatalf("expected stub client, got %T", client)
	}

	again, err := factory(context.Background(), Credentials{Region: "eu-west-1"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if again != client {
		t.Fatalf("expected the stub to be shared across credentials")
	}
}

func TestNewFactoryBuildsAWSClient(t *testing.T) {
	cfg := config.Config{ListenAddr: "bufconn", Endpoint: "http://127.0.0.1:4566"}
	factory := NewFactory(cfg, nil)

	client, err := factory(context.Background(), Credentials{
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		Region:          "us-east-1",
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, ok := client.(*AWSClient); !ok {
		t.Fatalf("expected aws client, got %T", client)
	}
}

func TestNewClientRequiresRegion(t *testing.T) {
	if _, err := NewClient(context.Background(), Credentials{AccessKeyID: "a", SecretAccessKey: "b"}, Options{}); err == nil {
		t.Fatalf("expected error for missing region")
	}
}
