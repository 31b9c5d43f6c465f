package featureflags

import "testing"

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0")

	if !m.Enabled("a", "u1") || !m.Enabled("c", "u1") || !m.Enabled("e", "u1") {
		t.Fatal("expected enabled boolean values to evaluate true")
	}
	if m.Enabled("b", "u1") || m.Enabled("d", "u1") || m.Enabled("f", "u1") {
		t.Fatal("expected disabled boolean values to evaluate false")
	}
	if m.Enabled("missing", "u1") {
		t.Fatal("unknown flags are disabled")
	}
}

func TestEnabled_PercentageValues(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%,junk=abc%")

	if !m.Enabled("always", "u1") {
		t.Fatal("100% rollout should always be enabled")
	}
	if m.Enabled("never", "u1") || m.Enabled("junk", "u1") {
		t.Fatal("0% and malformed rollouts should be disabled")
	}

	first := m.Enabled("canary", "user-42")
	for i := 0; i < 5; i++ {
		if got := m.Enabled("canary", "user-42"); got != first {
			t.Fatal("rollout evaluation must be deterministic per user")
		}
	}

	if m.Enabled("canary", "") {
		t.Fatal("percentage rollout requires a user id")
	}
}

func TestParseAndSnapshot(t *testing.T) {
	m := NewManager(" bad ,AUTO_BADGES=on, y = 20% ,z=off ")

	raw := m.Raw()
	if raw["y"] != "20%" {
		t.Fatalf("expected trimmed percentage value, got %q", raw["y"])
	}

	snap := m.Snapshot("u1")
	if len(snap) != 3 {
		t.Fatalf("expected 3 parsed flags, got %d", len(snap))
	}
	if !snap[AutoBadges] {
		t.Fatal("flag names are case-insensitive")
	}
	if snap["z"] {
		t.Fatal("z should be disabled")
	}
}

func TestNilManager(t *testing.T) {
	var m *Manager
	if m.Enabled(AutoBadges, "u1") {
		t.Fatal("nil manager enables nothing")
	}
	if len(m.Snapshot("u1")) != 0 {
		t.Fatal("nil manager has no flags")
	}
}
