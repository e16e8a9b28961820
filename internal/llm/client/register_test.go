package llmclient

import "testing"

type collectRegistrar struct {
	specs []ModelRegistration
}

func (c *collectRegistrar) RegisterModel(spec ModelRegistration) error {
	c.specs = append(c.specs, spec)
	return nil
}

func TestRegisterDefaultModelsCoversAllTiers(t *testing.T) {
	reg := &collectRegistrar{}
	if err := RegisterDefaultModels(reg); err != nil {
		t.Fatalf("register default models: %v", err)
	}
	seen := map[string]bool{}
	for _, spec := range reg.specs {
		seen[spec.Tier] = true
		if spec.Factory == nil {
			t.Fatalf("model %s/%s has nil factory", spec.Provider, spec.Model)
		}
	}
	for _, tier := range []string{"fast", "standard", "premium", "vision"} {
		if !seen[tier] {
			t.Fatalf("expected tier %q to have at least one registered model", tier)
		}
	}
}

func TestRegisterDefaultModelsVisionEntriesMarked(t *testing.T) {
	reg := &collectRegistrar{}
	if err := RegisterDefaultModels(reg); err != nil {
		t.Fatalf("register default models: %v", err)
	}
	for _, spec := range reg.specs {
		if spec.Tier == "vision" && !spec.Vision {
			t.Fatalf("expected vision-tier model %s/%s to be marked Vision", spec.Provider, spec.Model)
		}
	}
}
