package notify

import (
	"testing"
	"time"
)

func TestCenter_ReplacesCurrent(t *testing.T) {
	c := NewCenter(DefaultTTL)

	first := c.Show(KindInfo, "Pronto para nova análise!")
	second := c.Show(KindError, "Por favor, insira uma notícia para verificar.")

	if first.ID == second.ID {
		t.Fatal("Expected distinct notification IDs")
	}

	cur, ok := c.Current()
	if !ok {
		t.Fatal("Expected a live notification")
	}
	if cur.ID != second.ID || cur.Kind != KindError {
		t.Errorf("Expected second notification to replace the first, got %+v", cur)
	}

	if c.Dismiss(first.ID) {
		t.Error("Expected dismissing a replaced notification to fail")
	}
}

func TestCenter_AutoDismiss(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewCenter(0)
	c.now = func() time.Time { return now }

	n := c.Show(KindSuccess, "ok")
	if n.ExpiresAt.Sub(n.CreatedAt) != DefaultTTL {
		t.Errorf("Expected %v TTL, got %v", DefaultTTL, n.ExpiresAt.Sub(n.CreatedAt))
	}

	now = now.Add(4999 * time.Millisecond)
	if _, ok := c.Current(); !ok {
		t.Error("Expected notification to be visible just before 5s")
	}

	now = now.Add(time.Millisecond)
	if _, ok := c.Current(); ok {
		t.Error("Expected notification to be gone after 5s")
	}
}

func TestCenter_DismissAndListeners(t *testing.T) {
	var seen []Notification
	c := NewCenter(time.Minute, func(n Notification) { seen = append(seen, n) })

	n := c.Show(KindWarning, "Nenhum resultado para compartilhar.")
	if !c.Dismiss(n.ID) {
		t.Error("Expected dismiss to succeed")
	}
	if _, ok := c.Current(); ok {
		t.Error("Expected no notification after dismiss")
	}
	if len(seen) != 1 || seen[0].Message != "Nenhum resultado para compartilhar." {
		t.Errorf("Expected listener to see the notification, got %+v", seen)
	}
}
