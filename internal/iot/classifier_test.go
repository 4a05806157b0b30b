package iot

import (
	"encoding/json"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/nerrad567/ouidb/internal/oui"
	"github.com/nerrad567/ouidb/internal/registry"
)

const testCSV = `Registry,Assignment,Organization Name,Organization Address
MA-L,000000,XEROX CORPORATION,M/S 105-50C WEBSTER NY US 14580
MA-L,501AC5,Microsoft,1 Microsoft Way Redmond Washington US 98052
MA-L,709E29,Sony Interactive Entertainment Inc.,1-7-1 Konan Minato-ku Tokyo JP 108-0075
MA-L,D8EC5E,Belkin International Inc.,12045 East Waterfront Drive Playa Vista CA US 90094
MA-L,B0C554,"D-Link International",1 Internal Harbourfront Singapore SG 098632
MA-L,18B430,"Nest Labs Inc.",3400 Hillview Ave. Palo Alto CA US 94304
MA-L,18B431,"Nest Labs Inc.",3400 Hillview Ave. Palo Alto CA US 94304
`

func newTestClassifier(t *testing.T) (*Classifier, *registry.Engine) {
	t.Helper()
	m, _, err := registry.ParseCSV(strings.NewReader(testCSV))
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	cache := registry.NewCacheState(t.TempDir(), DefaultBasename)
	return NewClassifier(cache), registry.NewEngine(m, "")
}

func TestClassifier_Classify(t *testing.T) {
	c, engine := newTestClassifier(t)

	set, err := c.Classify(engine.Mapping())
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	want := []string{
		"Belkin International Inc.",
		"Nest Labs Inc.",
		"Sony Interactive Entertainment Inc.",
	}
	if got := set.Sorted(); !reflect.DeepEqual(got, want) {
		t.Errorf("Classify() = %v, want %v", got, want)
	}
	if set.Contains("XEROX CORPORATION") || set.Contains("Microsoft") {
		t.Error("non-IoT vendors classified")
	}
}

func TestClassifier_ClassifyPersistsDumps(t *testing.T) {
	c, engine := newTestClassifier(t)

	set, err := c.Classify(engine.Mapping())
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	data, err := os.ReadFile(c.Cache().JSONPath())
	if err != nil {
		t.Fatalf("reading json dump: %v", err)
	}
	if !strings.HasPrefix(string(data), "[\n    \"Belkin International Inc.\",") {
		t.Errorf("json dump = %s", data)
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		t.Fatalf("json dump invalid: %v", err)
	}
	if !reflect.DeepEqual(names, set.Sorted()) {
		t.Errorf("json dump = %v, want %v", names, set.Sorted())
	}

	loaded, err := c.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(loaded, set) {
		t.Errorf("Load() = %v, want %v", loaded, set)
	}
}

func TestClassifier_ClassifyOverwrites(t *testing.T) {
	c, engine := newTestClassifier(t)

	if _, err := c.Classify(engine.Mapping()); err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if _, err := c.Classify(oui.NewMapping(0)); err != nil {
		t.Fatalf("Classify(empty) error = %v", err)
	}

	loaded, err := c.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Len() != 0 {
		t.Errorf("Load() after empty classify = %v, want empty", loaded.Sorted())
	}
}

func TestClassifier_IsIoTMAC(t *testing.T) {
	c, engine := newTestClassifier(t)

	tests := []struct {
		name string
		mac  string
		want Verdict
	}{
		{name: "belkin", mac: "D8:EC:5E:00:00:00", want: IoT},
		{name: "belkin hyphen", mac: "d8-ec-5e-aa-bb-cc", want: IoT},
		{name: "sony", mac: "70:9E:29:01:02:03", want: IoT},
		{name: "xerox", mac: "00:00:00:00:00:00", want: NotIoT},
		{name: "microsoft", mac: "50:1A:C5:00:00:00", want: NotIoT},
		{name: "unregistered", mac: "02:00:00:00:00:00", want: NotIoT},
		{name: "five groups", mac: "00:00:00:00:00", want: Unknown},
		{name: "garbage", mac: "not a mac", want: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsIoTMAC(tt.mac, engine); got != tt.want {
				t.Errorf("IsIoTMAC(%q) = %v, want %v", tt.mac, got, tt.want)
			}
		})
	}
}

func TestManufacturerSet_VerdictForAgreesWithIsIoTMAC(t *testing.T) {
	c, engine := newTestClassifier(t)
	set, err := c.Classify(engine.Mapping())
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	for _, mac := range []string{
		"D8:EC:5E:00:00:00",
		"70:9E:29:01:02:03",
		"00:00:00:00:00:00",
		"02:00:00:00:00:00",
		"not a mac",
	} {
		if got, want := set.VerdictFor(mac, engine), c.IsIoTMAC(mac, engine); got != want {
			t.Errorf("VerdictFor(%q) = %v, IsIoTMAC = %v", mac, got, want)
		}
	}
}

func TestClassifier_IsIoTMACInvalidSkipsPersistence(t *testing.T) {
	c, engine := newTestClassifier(t)

	if got := c.IsIoTMAC("00:00:00:00:00", engine); got != Unknown {
		t.Fatalf("IsIoTMAC() = %v, want %v", got, Unknown)
	}
	if _, err := os.Stat(c.Cache().JSONPath()); !os.IsNotExist(err) {
		t.Error("invalid MAC should return before classifying")
	}
}

// The membership test checks the resolved name as a substring of classified
// names, the reverse of the keyword test. A vendor whose own name matches no
// keyword is still reported as IoT when a classified name contains it.
func TestClassifier_IsIoTMACMembershipIsReversedContainment(t *testing.T) {
	m := oui.NewMapping(2)
	m.Set("AAAAAA", oui.Record{Registry: "MA-L", Assignment: "AAAAAA", OrganizationName: "Acme"})
	m.Set("BBBBBB", oui.Record{Registry: "MA-L", Assignment: "BBBBBB", OrganizationName: "Acme Smart Home"})
	engine := registry.NewEngine(m, "")
	c := NewClassifier(registry.NewCacheState(t.TempDir(), DefaultBasename))

	set, err := c.Classify(m)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if set.Contains("Acme") {
		t.Fatal("Acme matches no keyword and must not be classified")
	}

	if got := c.IsIoTMAC("AA:AA:AA:00:00:00", engine); got != IoT {
		t.Errorf("IsIoTMAC(Acme) = %v, want %v via reversed containment", got, IoT)
	}
}

func TestManufacturerSet_Matches(t *testing.T) {
	set := ManufacturerSet{"Belkin International Inc.": {}}

	tests := []struct {
		name string
		want bool
	}{
		{name: "Belkin International Inc.", want: true},
		{name: "BELKIN", want: true},
		{name: "international", want: true},
		{name: "Belkin International Inc. Europe", want: false},
		{name: "Xerox", want: false},
	}

	for _, tt := range tests {
		if got := set.Matches(tt.name); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestVerdict_String(t *testing.T) {
	tests := []struct {
		v    Verdict
		want string
	}{
		{IoT, "iot"},
		{NotIoT, "not_iot"},
		{Unknown, "unknown"},
	}

	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
	if Unknown.Known() || !IoT.Known() || !NotIoT.Known() {
		t.Error("Known() mismatch")
	}

	text, err := NotIoT.MarshalText()
	if err != nil || string(text) != "not_iot" {
		t.Errorf("MarshalText() = %q, %v", text, err)
	}
}
