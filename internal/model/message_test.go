package model

import "testing"

func TestDisplayNameAndRepr(t *testing.T) {
	u := User{Username: "bob", FirstName: "Боб", LastName: "Иванов"}
	if u.DisplayName() != "bob" || u.Repr() != "bob" {
		t.Errorf("при наличии username используется он: %q / %q", u.DisplayName(), u.Repr())
	}

	u = User{FirstName: "Боб", LastName: "Иванов"}
	if u.DisplayName() != "Боб" {
		t.Errorf("DisplayName без username = %q", u.DisplayName())
	}
	if u.Repr() != "Боб Иванов" {
		t.Errorf("Repr без username = %q", u.Repr())
	}

	u = User{FirstName: "Боб"}
	if u.Repr() != "Боб" {
		t.Errorf("Repr без фамилии = %q", u.Repr())
	}
}

func TestCommandName(t *testing.T) {
	m := &Message{Text: "/start привет"}
	if got := m.CommandName(CommandMarker{Offset: 0, Length: 6}); got != "start" {
		t.Errorf("CommandName = %q, ожидалось start", got)
	}

	// offset и length считаются в символах, не в байтах
	m = &Message{Text: "привет /add_reaction кот"}
	if got := m.CommandName(CommandMarker{Offset: 7, Length: 13}); got != "add_reaction" {
		t.Errorf("CommandName со смещением = %q", got)
	}

	// битый маркер — пустое имя
	m = &Message{Text: "/go"}
	for _, marker := range []CommandMarker{
		{Offset: -1, Length: 3},
		{Offset: 0, Length: 0},
		{Offset: 0, Length: 100},
	} {
		if got := m.CommandName(marker); got != "" {
			t.Errorf("битый маркер %+v дал %q", marker, got)
		}
	}
}

func TestLargestPhoto(t *testing.T) {
	m := &Message{}
	if _, ok := m.LargestPhoto(); ok {
		t.Error("сообщение без фото не должно давать вариант")
	}

	m.Photos = []PhotoVariant{
		{FileID: "small", FileSize: 100},
		{FileID: "large", FileSize: 9000},
		{FileID: "medium", FileSize: 2000},
	}
	p, ok := m.LargestPhoto()
	if !ok || p.FileID != "large" {
		t.Errorf("LargestPhoto = %+v", p)
	}
}
