package model

import "testing"

func validBrief() Brief {
	return Brief{
		SchemaVersion: SchemaVersion,
		DiagramType:   ArchetypeMarketecture,
		Title:         "Platform Overview",
		Entities: []Entity{
			{ID: "a", Label: "A", Emphasis: EmphasisPrimary},
			{ID: "b", Label: "B", Emphasis: EmphasisNormal},
		},
		Layers: []Layer{
			{ID: "l1", Position: LayerCrossCutting, Members: []string{"a"}},
		},
		Connections: []Connection{
			{FromID: "a", ToID: "b", Style: ConnectionArrow},
		},
		Theme: Theme{Primary: "0073e6", Background: "ffffff", Text: "000000"},
	}
}

func TestBriefValidateOK(t *testing.T) {
	if err := validBrief().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBriefValidateDuplicateID(t *testing.T) {
	b := validBrief()
	b.Entities = append(b.Entities, Entity{ID: "a", Label: "dup"})
	if err := b.Validate(); err == nil {
		t.Fatal("expected error for duplicate entity id")
	}
}

func TestBriefValidateUnknownConnectionEndpoint(t *testing.T) {
	b := validBrief()
	b.Connections = []Connection{{FromID: "a", ToID: "missing"}}
	if err := b.Validate(); err == nil {
		t.Fatal("expected error for unknown connection endpoint")
	}
}

func TestBriefValidateUnknownLayerMember(t *testing.T) {
	b := validBrief()
	b.Layers = []Layer{{ID: "l1", Members: []string{"missing"}}}
	if err := b.Validate(); err == nil {
		t.Fatal("expected error for unknown layer member")
	}
}

func TestBriefValidateBadHex(t *testing.T) {
	b := validBrief()
	b.Theme.Primary = "#0073E6"
	if err := b.Validate(); err == nil {
		t.Fatal("expected error for non-normalized hex color")
	}
}

func TestBriefValidateUnknownArchetype(t *testing.T) {
	b := validBrief()
	b.DiagramType = "not-a-real-archetype"
	if err := b.Validate(); err == nil {
		t.Fatal("expected error for unknown archetype")
	}
}
