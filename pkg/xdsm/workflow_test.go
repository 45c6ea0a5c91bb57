package xdsm

import (
	"encoding/json"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestStepUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Step
		wantErr bool
	}{
		{
			name:  "Ref",
			input: `"Opt"`,
			want:  Ref("Opt"),
		},
		{
			name:  "UserBoundary",
			input: `"_U_"`,
			want:  Ref(UserID),
		},
		{
			name:  "Parallel",
			input: `{"parallel": ["Dis1", "Dis2"]}`,
			want:  Parallel(Ref("Dis1"), Ref("Dis2")),
		},
		{
			name:  "Nested",
			input: `["Opt", ["Dis1"]]`,
			want:  Nested(Ref("Opt"), Nested(Ref("Dis1"))),
		},
		{
			name:  "ParallelWithNestedMember",
			input: `{"parallel": ["Dis1", ["Dis2", "Dis3"]]}`,
			want:  Parallel(Ref("Dis1"), Nested(Ref("Dis2"), Ref("Dis3"))),
		},
		{
			name:    "UnknownObjectKey",
			input:   `{"serial": ["Dis1"]}`,
			wantErr: true,
		},
		{
			name:    "ExtraObjectKeys",
			input:   `{"parallel": ["Dis1"], "other": 1}`,
			wantErr: true,
		},
		{
			name:    "Number",
			input:   `42`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Step
			err := json.Unmarshal([]byte(tt.input), &s)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if !reflect.DeepEqual(s, tt.want) {
				t.Errorf("step = %+v, want %+v", s, tt.want)
			}
		})
	}
}

func TestStepRoundTripJSON(t *testing.T) {
	w := Workflow{
		Ref(UserID),
		Nested(
			Ref("Opt"),
			Nested(
				Parallel(Ref("Dis6"), Ref("Dis7"), Ref("Dis8")),
				Ref("Dis3"),
			),
		),
	}

	data, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `["_U_",["Opt",[{"parallel":["Dis6","Dis7","Dis8"]},"Dis3"]]]`
	if string(data) != want {
		t.Errorf("wire form = %s, want %s", data, want)
	}

	var back Workflow
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back, w) {
		t.Errorf("round trip = %+v, want %+v", back, w)
	}
}

func TestStepUnmarshalYAML(t *testing.T) {
	input := `
- _U_
- - Opt
  - - parallel: [Dis1, Dis2]
    - Dis3
`
	var w Workflow
	if err := yaml.Unmarshal([]byte(input), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := Workflow{
		Ref(UserID),
		Nested(
			Ref("Opt"),
			Nested(
				Parallel(Ref("Dis1"), Ref("Dis2")),
				Ref("Dis3"),
			),
		),
	}
	if !reflect.DeepEqual(w, want) {
		t.Errorf("workflow = %+v, want %+v", w, want)
	}
}

func TestWorkflowRefs(t *testing.T) {
	w := Workflow{
		Ref(UserID),
		Nested(
			Ref("Opt"),
			Nested(
				Parallel(Ref("Dis1"), Ref("Dis2")),
				Ref("Dis1"), // repeats are preserved
			),
		),
	}

	got := w.Refs()
	want := []string{UserID, "Opt", "Dis1", "Dis2", "Dis1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("refs = %v, want %v", got, want)
	}
}

func TestWorkflowLeadsWithUser(t *testing.T) {
	tests := []struct {
		name string
		w    Workflow
		want bool
	}{
		{"Empty", Workflow{}, false},
		{"User", Workflow{Ref(UserID)}, true},
		{"Node", Workflow{Ref("Opt")}, false},
		{"NestedFirst", Workflow{Nested(Ref(UserID))}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.w.LeadsWithUser(); got != tt.want {
				t.Errorf("LeadsWithUser() = %v, want %v", got, tt.want)
			}
		})
	}
}
