// storage_test.go
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package shellshield

import (
	"context"
	"path/filepath"
	"testing"
)

func TestFileAuditStorage_AppendAndTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	storage, err := NewFileAuditStorage(path)
	if err != nil {
		t.Fatalf("NewFileAuditStorage: %v", err)
	}
	defer storage.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		rec := NewRecord("2026-07-31T00:00:0"+itoa(i)+"Z", "rm file"+itoa(i), Decision{Blocked: true, Reason: "x"}, AuditBlocked, ModeEnforce, SourceCheck, "/work")
		if err := storage.Append(ctx, rec); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	all, err := storage.Tail(ctx, 0)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d records, want 3", len(all))
	}

	last2, err := storage.Tail(ctx, 2)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(last2) != 2 || last2[1].Command != "rm file2" {
		t.Fatalf("got %+v, want the last 2 records ending in 'rm file2'", last2)
	}
}

func TestNewRecord(t *testing.T) {
	d := Decision{Blocked: true, Reason: "CRITICAL PATH PROTECTED", Suggestion: "don't", Rule: "CoreAst"}
	rec := NewRecord("2026-07-31T00:00:00Z", "rm -rf /", d, AuditBlocked, ModeEnforce, SourceCheck, "/work")
	if rec.Command != "rm -rf /" || !rec.Blocked || rec.Rule != "CoreAst" || rec.Decision != AuditBlocked {
		t.Fatalf("got %+v, unexpected field values", rec)
	}
}
