package observe_test

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"

	"github.com/schale-tools/schale-mcp/internal/observe"
)

// Not parallel: InitProvider swaps the global providers.
func TestInitProvider_InstallsGlobalsAndShutsDown(t *testing.T) {
	ctx := context.Background()

	shutdown, err := observe.InitProvider(ctx, "test")
	if err != nil {
		t.Fatalf("InitProvider: %v", err)
	}

	if otel.GetMeterProvider() == nil {
		t.Error("global meter provider not installed")
	}
	if otel.GetTracerProvider() == nil {
		t.Error("global tracer provider not installed")
	}

	if err := shutdown(ctx); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}
