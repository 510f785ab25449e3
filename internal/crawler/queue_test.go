package crawler

import (
	"reflect"
	"sync"
	"testing"
)

// --- URLQueue Tests ---

func TestURLQueue_Add_NewURL(t *testing.T) {
	q := NewURLQueue(Visited{}, 0)

	if !q.Add("https://example.com/page1") {
		t.Error("Add() should return true for new URL")
	}
	if q.Len() != 1 {
		t.Errorf("expected queue length 1, got %d", q.Len())
	}
}

func TestURLQueue_Add_Rejects(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"duplicate", "https://example.com/page1"},
		{"duplicate after normalization", "https://EXAMPLE.com/page1/#top"},
		{"invalid", "://invalid"},
		{"relative", "/colleges/rvce"},
		{"mailto", "mailto:info@rvce.edu.in"},
		{"visited", "https://rvce.edu.in/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewURLQueue(NewVisited("https://rvce.edu.in"), 0)
			q.Add("https://example.com/page1")
			if q.Add(tt.url) {
				t.Errorf("Add(%q) = true, want false", tt.url)
			}
		})
	}
}

func TestURLQueue_Limit(t *testing.T) {
	q := NewURLQueue(Visited{}, 2)
	q.Add("https://a.edu")
	q.Add("https://b.edu")

	if !q.Full() {
		t.Error("Full() = false after reaching the limit")
	}
	if q.Add("https://c.edu") {
		t.Error("Add() accepted a URL past the limit")
	}
	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2", q.Len())
	}
}

func TestURLQueue_Pop_FIFO_Order(t *testing.T) {
	q := NewURLQueue(Visited{}, 0)
	if _, ok := q.Pop(); ok {
		t.Fatal("Pop() on empty queue returned ok")
	}

	urls := []string{"https://a.edu/1", "https://a.edu/2", "https://a.edu/3"}
	for _, u := range urls {
		q.Add(u)
	}
	if got := q.URLs(); !reflect.DeepEqual(got, urls) {
		t.Errorf("URLs() = %v, want %v", got, urls)
	}
	for _, want := range urls {
		got, ok := q.Pop()
		if !ok || got != want {
			t.Errorf("Pop() = %q, %v; want %q", got, ok, want)
		}
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d after draining", q.Len())
	}
}

func TestURLQueue_ConcurrentAccess(t *testing.T) {
	q := NewURLQueue(Visited{}, 0)
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			q.Add("https://example.com/page" + string(rune('a'+n%26)))
		}(i)
	}
	wg.Wait()

	if q.Len() != 26 {
		t.Errorf("Len() = %d, want 26 unique URLs", q.Len())
	}
}

// --- normalizeURL Tests ---

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com/page#section", "https://example.com/page"},
		{"https://example.com/page/", "https://example.com/page"},
		{"https://example.com/", "https://example.com/"},
		{"https://EXAMPLE.com/Path", "https://example.com/Path"},
		{"https://example.com", "https://example.com/"},
		{"  https://example.com/x  ", "https://example.com/x"},
		{"://invalid", ""},
		{"ftp://example.com/file", ""},
		{"/relative", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := normalizeURL(tt.in); got != tt.want {
				t.Errorf("normalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// --- IsSameDomain Tests ---

func TestIsSameDomain(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"https://rvce.edu.in/a", "https://RVCE.edu.in/b", true},
		{"https://rvce.edu.in/a", "https://bmsce.ac.in/a", false},
		{"https://example.com:8080/a", "https://example.com:9090/b", false},
		{"://invalid", "https://example.com", false},
	}

	for _, tt := range tests {
		if got := IsSameDomain(tt.a, tt.b); got != tt.want {
			t.Errorf("IsSameDomain(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

// --- Visited Tests ---

func TestVisited_WithReturnsCopy(t *testing.T) {
	base := NewVisited("https://rvce.edu.in/")
	next := base.With("https://bmsce.ac.in", "https://rvce.edu.in")

	if base.Len() != 1 {
		t.Errorf("With() mutated the receiver: Len() = %d", base.Len())
	}
	if base.Has("https://bmsce.ac.in") {
		t.Error("receiver gained a URL added to the copy")
	}
	if next.Len() != 2 {
		t.Errorf("next.Len() = %d, want 2", next.Len())
	}
	want := []string{"https://bmsce.ac.in/", "https://rvce.edu.in/"}
	if got := next.URLs(); !reflect.DeepEqual(got, want) {
		t.Errorf("URLs() = %v, want %v", got, want)
	}
}

func TestVisited_ZeroValue(t *testing.T) {
	var v Visited
	if v.Has("https://rvce.edu.in") || v.Len() != 0 || len(v.URLs()) != 0 {
		t.Error("zero Visited should be empty")
	}
	if v.With("not a url").Len() != 0 {
		t.Error("With() kept an invalid URL")
	}
}
