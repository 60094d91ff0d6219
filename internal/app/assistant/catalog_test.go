package assistant

import (
	"testing"

	"github.com/PabloGalante/timeplanner-api/internal/adapters/llm"
	memstore "github.com/PabloGalante/timeplanner-api/internal/adapters/storage/memory"
)

// Every advertised tool must have a handler and every handler must be
// advertised, otherwise the model can request operations we cannot run.
func TestCatalogAndDispatchTableMatch(t *testing.T) {
	svc := NewService(llm.NewMockLLM(), memstore.NewTaskStore(), memstore.NewEventStore())

	advertised := make(map[string]bool)
	for _, tool := range svc.catalog {
		if advertised[tool.Name] {
			t.Fatalf("tool %q advertised twice", tool.Name)
		}
		advertised[tool.Name] = true

		if _, ok := svc.handlers[tool.Name]; !ok {
			t.Fatalf("tool %q has no handler", tool.Name)
		}
	}

	for name := range svc.handlers {
		if !advertised[name] {
			t.Fatalf("handler %q is not in the catalog", name)
		}
	}
}

func TestCatalogDeclaresRequiredParams(t *testing.T) {
	for _, tool := range Catalog() {
		for _, required := range tool.Required {
			if _, ok := tool.Params[required]; !ok {
				t.Fatalf("tool %q requires undeclared param %q", tool.Name, required)
			}
		}
		if tool.Description == "" {
			t.Fatalf("tool %q has no description", tool.Name)
		}
	}
}

func TestListLimitsDeclareBounds(t *testing.T) {
	for _, name := range []string{"list_tasks", "list_events"} {
		var found bool
		for _, tool := range Catalog() {
			if tool.Name != name {
				continue
			}
			found = true
			limit, ok := tool.Params["limit"]
			if !ok {
				t.Fatalf("tool %q has no limit param", name)
			}
			if limit.Minimum == nil || *limit.Minimum != 1 {
				t.Fatalf("tool %q limit minimum = %v, want 1", name, limit.Minimum)
			}
			if limit.Maximum == nil || *limit.Maximum != float64(maxListLimit) {
				t.Fatalf("tool %q limit maximum = %v, want %d", name, limit.Maximum, maxListLimit)
			}
		}
		if !found {
			t.Fatalf("tool %q missing from the catalog", name)
		}
	}
}
