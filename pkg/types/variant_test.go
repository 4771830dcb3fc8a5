package types

import (
	"reflect"
	"testing"
)

func TestCoordinate(t *testing.T) {
	v := Variant{Chrom: "2", Pos: 162279995, Ref: "C", Alt: "G"}
	if got := v.Coordinate(); got != "2:162279995 C>G" {
		t.Errorf("Coordinate() = %q", got)
	}
}

func TestLabel(t *testing.T) {
	v := Variant{
		Chrom: "2", Pos: 162279995, Ref: "C", Alt: "G",
		GeneSymbol: "IFIH1",
		HGVSp:      "p.Arg779Cys",
		RSID:       "rs35667974",
	}
	got := v.Label()
	want := "2:162279995 C>G, gene:IFIH1, HGVSp:p.Arg779Cys, rsID:rs35667974"
	if got != want {
		t.Errorf("Label() = %q, want %q", got, want)
	}
}

func TestSearchKeys(t *testing.T) {
	tests := []struct {
		name string
		v    Variant
		want []string
	}{
		{
			name: "fully annotated",
			v: Variant{
				Chrom: "2", Pos: 162279995, Ref: "C", Alt: "G",
				GeneSymbol: "IFIH1",
				RSID:       "rs35667974",
				HGVSc:      "NM_022168.4:c.2335C>T",
				HGVSp:      "p.Arg779Cys",
			},
			want: []string{
				"2:162279995C>G",
				"rs35667974",
				"NM_022168.4:c.2335C>T",
				"p.Arg779Cys",
				"IFIH1 p.Arg779Cys",
				"IFIH1 NM_022168.4:c.2335C>T",
			},
		},
		{
			name: "coordinate only",
			v:    Variant{Chrom: "X", Pos: 1000, Ref: "A", Alt: "T"},
			want: []string{"X:1000A>T"},
		},
		{
			name: "gene without HGVS adds no text keys",
			v: Variant{
				Chrom: "1", Pos: 5, Ref: "G", Alt: "C",
				GeneSymbol: "BRCA1",
				RSID:       "rs1",
			},
			want: []string{"1:5G>C", "rs1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.SearchKeys()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SearchKeys() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearchKeysDeduplicates(t *testing.T) {
	// Identical rsID and HGVSc should collapse into one key.
	v := Variant{
		Chrom: "1", Pos: 5, Ref: "G", Alt: "C",
		RSID:  "rs42",
		HGVSc: "rs42",
	}
	got := v.SearchKeys()
	want := []string{"1:5G>C", "rs42"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SearchKeys() = %v, want %v", got, want)
	}
}

func TestEnrichKeepsExistingFields(t *testing.T) {
	v := Variant{
		Chrom: "2", Pos: 1, Ref: "A", Alt: "G",
		GeneSymbol: "GIVEN",
		RSID:       "rs111",
	}
	v.Enrich(Annotation{
		GeneSymbol: "OTHER",
		RSID:       "rs999",
		HGVSc:      "c.1A>G",
		HGVSp:      "p.Met1Val",
		Transcript: "ENST00000001",
	})

	if v.GeneSymbol != "GIVEN" {
		t.Errorf("GeneSymbol = %q, want caller's value kept", v.GeneSymbol)
	}
	if v.RSID != "rs111" {
		t.Errorf("RSID = %q, want caller's value kept", v.RSID)
	}
	if v.HGVSc != "c.1A>G" || v.HGVSp != "p.Met1Val" || v.Transcript != "ENST00000001" {
		t.Errorf("annotation fields not filled: %+v", v)
	}
}

func TestEnrichFillsEmptyFields(t *testing.T) {
	v := Variant{Chrom: "2", Pos: 1, Ref: "A", Alt: "G"}
	v.Enrich(Annotation{GeneSymbol: "IFIH1", RSID: "rs35667974"})

	if v.GeneSymbol != "IFIH1" || v.RSID != "rs35667974" {
		t.Errorf("Enrich did not fill empty fields: %+v", v)
	}
}
