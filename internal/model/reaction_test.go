package model

import (
	"testing"
	"time"
)

func TestIsURL(t *testing.T) {
	valid := []string{
		"http://example.com",
		"https://example.com/path?q=1",
		"HTTPS://EXAMPLE.COM",
		"ftp://files.example.org/pub",
		"http://localhost:8080/x",
		"http://192.168.0.1/img.jpg",
	}
	for _, s := range valid {
		if !IsURL(s) {
			t.Errorf("IsURL(%q) = false, ожидалось true", s)
		}
	}
	invalid := []string{
		"example.com",
		"просто текст",
		"http://",
		"mailto:user@example.com",
		"file:///etc/passwd",
	}
	for _, s := range invalid {
		if IsURL(s) {
			t.Errorf("IsURL(%q) = true, ожидалось false", s)
		}
	}
}

func TestOnHold(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	cooldown := 4 * time.Minute

	r := &Reaction{}
	if r.OnHold(now, cooldown) {
		t.Error("неиспользованная реакция не может быть на кулдауне")
	}

	recent := now.Add(-time.Minute)
	r.LastUsedAt = &recent
	if !r.OnHold(now, cooldown) {
		t.Error("реакция минуту назад должна быть на кулдауне")
	}

	// ровно на границе окна — ещё на кулдауне (last_used >= now - cooldown)
	edge := now.Add(-cooldown)
	r.LastUsedAt = &edge
	if !r.OnHold(now, cooldown) {
		t.Error("реакция ровно на границе окна должна быть на кулдауне")
	}

	old := now.Add(-cooldown - time.Second)
	r.LastUsedAt = &old
	if r.OnHold(now, cooldown) {
		t.Error("реакция за окном не должна быть на кулдауне")
	}
}

func TestNormalizePatterns(t *testing.T) {
	got := NormalizePatterns([]string{" Попяч ", "", "  ", "БАЯН", "кот"})
	want := []string{"попяч", "баян", "кот"}
	if len(got) != len(want) {
		t.Fatalf("NormalizePatterns = %v, ожидалось %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("паттерн %d = %q, ожидался %q", i, got[i], want[i])
		}
	}
}
