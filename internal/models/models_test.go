package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTextReply(t *testing.T) {
	reply := TextReply("hello")

	if reply.IsAttachment() {
		t.Error("Expected text reply not to be an attachment")
	}
	if reply.Text != "hello" || reply.ResponseType != ResponseEphemeral {
		t.Errorf("Unexpected reply %+v", reply)
	}

	data, err := json.Marshal(reply)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), "attachments") {
		t.Errorf("Expected no attachments key in %s", data)
	}
}

func TestAttachmentReply(t *testing.T) {
	reply := AttachmentReply(Attachment{Title: "Dune"})

	if !reply.IsAttachment() {
		t.Error("Expected attachment reply")
	}
	if reply.Text != "" {
		t.Errorf("Expected empty text, got %q", reply.Text)
	}
	if len(reply.Attachments) != 1 || reply.Attachments[0].Title != "Dune" {
		t.Errorf("Unexpected attachments %+v", reply.Attachments)
	}
	if reply.ResponseType != ResponseEphemeral {
		t.Errorf("Expected ephemeral response type, got %s", reply.ResponseType)
	}
}

func TestNormalizeISBN(t *testing.T) {
	tests := []struct {
		name     string
		isbn     string
		expected string
	}{
		{name: "hyphenated", isbn: "978-0-123456-47-2", expected: "9780123456472"},
		{name: "already normalized", isbn: "9780123456472", expected: "9780123456472"},
		{name: "empty", isbn: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeISBN(tt.isbn)
			if got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
			if again := NormalizeISBN(got); again != got {
				t.Errorf("Expected normalization to be idempotent, got %s then %s", got, again)
			}
		})
	}
}
