package intel

import (
	stderrors "errors"
	"testing"

	"reconai/pkg/errors"
)

func newTestRegistry() *Registry {
	r := NewRegistry()
	r.Register(&stubModule{name: ModuleDomain})
	r.Register(&stubModule{name: ModuleWeb})
	r.Register(&stubModule{name: ModuleThreat})
	return r
}

func TestRegistry_ResolvePreservesOrder(t *testing.T) {
	r := newTestRegistry()

	modules, err := r.Resolve([]string{ModuleThreat, ModuleDomain})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(modules) != 2 {
		t.Fatalf("Expected 2 modules, got %d", len(modules))
	}
	if modules[0].Name() != ModuleThreat || modules[1].Name() != ModuleDomain {
		t.Errorf("Request order not preserved: %s, %s", modules[0].Name(), modules[1].Name())
	}
}

func TestRegistry_ResolveDropsDuplicates(t *testing.T) {
	r := newTestRegistry()

	modules, err := r.Resolve([]string{ModuleWeb, ModuleWeb, ModuleWeb})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(modules) != 1 {
		t.Errorf("Expected duplicates dropped, got %d modules", len(modules))
	}
}

func TestRegistry_ResolveUnknownModule(t *testing.T) {
	r := newTestRegistry()

	_, err := r.Resolve([]string{ModuleDomain, "satellite"})
	if err == nil {
		t.Fatal("Expected error for unknown module")
	}
	if !stderrors.Is(err, errors.ErrUnknownModule) {
		t.Errorf("Expected ErrUnknownModule, got %v", err)
	}
}
