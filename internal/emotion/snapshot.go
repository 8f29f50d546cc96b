// ABOUTME: Read-only state snapshot published to collaborators after each cycle
// ABOUTME: JSON codec written against easyjson's jwriter/jlexer; map keys sorted for stable output

package emotion

import (
	"maps"
	"slices"
	"time"

	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"

	"github.com/mauromedda/pi-mood-go/internal/catalog"
)

// Snapshot sources.
const (
	SourceReset   = "reset"
	SourceText    = "text"
	SourceEvent   = "event"
	SourceInject  = "inject"
	SourceRestore = "restore"
)

// Snapshot is an immutable view of the emotional state after one operation.
type Snapshot struct {
	Turn        int
	At          time.Time
	Source      string
	Context     string
	Dominant    string
	Intensity   Intensity
	Derived     []string           // fired combination moods
	Activations map[string]float64 // every known emotion
	Evidence    map[string]float64 // modified deltas of the cycle
	Affect      catalog.Affect     // activation-weighted blend of base affect vectors
	Modifiers   map[string]string  // response modifiers of the dominant emotion
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	s.Derived = slices.Clone(s.Derived)
	s.Activations = maps.Clone(s.Activations)
	s.Evidence = maps.Clone(s.Evidence)
	s.Modifiers = maps.Clone(s.Modifiers)
	return s
}

// Activation returns the activation of id, 0 when unknown.
func (s Snapshot) Activation(id string) float64 {
	return s.Activations[id]
}

// HasDerived reports whether the named combination mood fired.
func (s Snapshot) HasDerived(name string) bool {
	return slices.Contains(s.Derived, name)
}

// MarshalJSON implements json.Marshaler.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	s.MarshalEasyJSON(&w)
	return w.Buffer.BuildBytes(), w.Error
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	l := jlexer.Lexer{Data: data}
	s.UnmarshalEasyJSON(&l)
	return l.Error()
}

// MarshalEasyJSON implements easyjson.Marshaler.
func (s Snapshot) MarshalEasyJSON(out *jwriter.Writer) {
	out.RawString(`{"turn":`)
	out.Int(s.Turn)
	out.RawString(`,"at":`)
	out.Raw(s.At.MarshalJSON())
	out.RawString(`,"source":`)
	out.String(s.Source)
	if s.Context != "" {
		out.RawString(`,"context":`)
		out.String(s.Context)
	}
	out.RawString(`,"dominant":`)
	out.String(s.Dominant)

	out.RawString(`,"intensity":{"value":`)
	out.Float64(s.Intensity.Value)
	out.RawString(`,"band":`)
	out.String(s.Intensity.Band)
	out.RawString(`,"description":`)
	out.String(s.Intensity.Description)
	out.RawString(`,"qualifier":`)
	out.String(s.Intensity.Qualifier)
	out.RawByte('}')

	out.RawString(`,"derived":[`)
	for i, name := range s.Derived {
		if i > 0 {
			out.RawByte(',')
		}
		out.String(name)
	}
	out.RawByte(']')

	out.RawString(`,"activations":`)
	writeFloatMap(out, s.Activations)
	if len(s.Evidence) > 0 {
		out.RawString(`,"evidence":`)
		writeFloatMap(out, s.Evidence)
	}

	out.RawString(`,"affect":{"energy":`)
	out.Float64(s.Affect.Energy)
	out.RawString(`,"positivity":`)
	out.Float64(s.Affect.Positivity)
	out.RawString(`,"arousal":`)
	out.Float64(s.Affect.Arousal)
	out.RawString(`,"dominance":`)
	out.Float64(s.Affect.Dominance)
	out.RawByte('}')

	out.RawString(`,"response_modifiers":{`)
	for i, k := range slices.Sorted(maps.Keys(s.Modifiers)) {
		if i > 0 {
			out.RawByte(',')
		}
		out.String(k)
		out.RawByte(':')
		out.String(s.Modifiers[k])
	}
	out.RawString(`}}`)
}

func writeFloatMap(out *jwriter.Writer, m map[string]float64) {
	out.RawByte('{')
	for i, k := range slices.Sorted(maps.Keys(m)) {
		if i > 0 {
			out.RawByte(',')
		}
		out.String(k)
		out.RawByte(':')
		out.Float64(m[k])
	}
	out.RawByte('}')
}

// UnmarshalEasyJSON implements easyjson.Unmarshaler.
func (s *Snapshot) UnmarshalEasyJSON(in *jlexer.Lexer) {
	isTopLevel := in.IsStart()
	if in.IsNull() {
		if isTopLevel {
			in.Consumed()
		}
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeString()
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "turn":
			s.Turn = in.Int()
		case "at":
			if data := in.Raw(); in.Ok() {
				in.AddError(s.At.UnmarshalJSON(data))
			}
		case "source":
			s.Source = in.String()
		case "context":
			s.Context = in.String()
		case "dominant":
			s.Dominant = in.String()
		case "intensity":
			readIntensity(in, &s.Intensity)
		case "derived":
			s.Derived = readStrings(in)
		case "activations":
			s.Activations = readFloatMap(in)
		case "evidence":
			s.Evidence = readFloatMap(in)
		case "affect":
			readAffect(in, &s.Affect)
		case "response_modifiers":
			s.Modifiers = readStringMap(in)
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	if isTopLevel {
		in.Consumed()
	}
}

func readIntensity(in *jlexer.Lexer, out *Intensity) {
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeString()
		in.WantColon()
		switch key {
		case "value":
			out.Value = in.Float64()
		case "band":
			out.Band = in.String()
		case "description":
			out.Description = in.String()
		case "qualifier":
			out.Qualifier = in.String()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

func readAffect(in *jlexer.Lexer, out *catalog.Affect) {
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeString()
		in.WantColon()
		switch key {
		case "energy":
			out.Energy = in.Float64()
		case "positivity":
			out.Positivity = in.Float64()
		case "arousal":
			out.Arousal = in.Float64()
		case "dominance":
			out.Dominance = in.Float64()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

func readStrings(in *jlexer.Lexer) []string {
	out := []string{}
	in.Delim('[')
	for !in.IsDelim(']') {
		out = append(out, in.String())
		in.WantComma()
	}
	in.Delim(']')
	return out
}

func readFloatMap(in *jlexer.Lexer) map[string]float64 {
	out := map[string]float64{}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.String()
		in.WantColon()
		out[key] = in.Float64()
		in.WantComma()
	}
	in.Delim('}')
	return out
}

func readStringMap(in *jlexer.Lexer) map[string]string {
	out := map[string]string{}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.String()
		in.WantColon()
		out[key] = in.String()
		in.WantComma()
	}
	in.Delim('}')
	return out
}
