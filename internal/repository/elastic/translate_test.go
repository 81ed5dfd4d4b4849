package elastic

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/chatsearch/internal/domain/search/query"
)

func TestTranslate_SingleMatchWithFiltersAndSort(t *testing.T) {
	req := &query.Request{
		Matches: []query.Match{{Field: "content", Text: "hello"}},
		Filters: []query.Filter{{Field: "roomId", Value: "r1"}},
		Sort:    &query.Sort{Field: "timestamp", Desc: true},
		Size:    50,
	}

	esReq, err := translate(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if esReq.Query.Bool == nil {
		t.Fatal("expected bool query")
	}
	if len(esReq.Query.Bool.Must) != 1 {
		t.Fatalf("expected 1 must clause, got %d", len(esReq.Query.Bool.Must))
	}
	mq, ok := esReq.Query.Bool.Must[0].Match["content"]
	if !ok || mq.Query != "hello" {
		t.Errorf("unexpected match clause: %+v", esReq.Query.Bool.Must[0].Match)
	}
	if len(esReq.Query.Bool.Filter) != 1 {
		t.Fatalf("expected 1 filter clause, got %d", len(esReq.Query.Bool.Filter))
	}
	tq, ok := esReq.Query.Bool.Filter[0].Term["roomId"]
	if !ok || tq.Value != "r1" {
		t.Errorf("unexpected term filter: %+v", esReq.Query.Bool.Filter[0].Term)
	}
	if esReq.Size == nil || *esReq.Size != 50 {
		t.Errorf("expected size 50, got %v", esReq.Size)
	}
	if len(esReq.Sort) != 1 {
		t.Errorf("expected sort spec, got %v", esReq.Sort)
	}
}

func TestTranslate_SingleMatchNoFilters(t *testing.T) {
	req := &query.Request{
		Matches: []query.Match{{Field: "content", Text: "hello"}},
		Size:    10,
	}

	esReq, err := translate(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// No bool wrapper when there is nothing to AND together.
	if esReq.Query.Bool != nil {
		t.Error("expected bare match query without bool wrapper")
	}
	if _, ok := esReq.Query.Match["content"]; !ok {
		t.Errorf("expected match on content, got %+v", esReq.Query)
	}
}

func TestTranslate_MultiMatchCaretBoost(t *testing.T) {
	req := &query.Request{
		Matches: []query.Match{
			{Field: "username", Text: "ann", Boost: 2},
			{Field: "email", Text: "ann"},
		},
		Size: 50,
	}

	esReq, err := translate(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mm := esReq.Query.MultiMatch
	if mm == nil {
		t.Fatal("expected multi_match query")
	}
	if mm.Query != "ann" {
		t.Errorf("unexpected query text %q", mm.Query)
	}
	if len(mm.Fields) != 2 || mm.Fields[0] != "username^2" || mm.Fields[1] != "email" {
		t.Errorf("unexpected fields %v", mm.Fields)
	}
}

func TestTranslate_VectorQuery(t *testing.T) {
	req := &query.Request{
		Vector: &query.Vector{Field: query.VectorField, Values: []float32{0.1, 0.2}},
		Size:   20,
	}

	esReq, err := translate(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ss := esReq.Query.ScriptScore
	if ss == nil {
		t.Fatal("expected script_score query")
	}
	if ss.Query.MatchAll == nil {
		t.Error("expected match_all inner query")
	}
	src, ok := ss.Script.Source.(string)
	if !ok {
		t.Fatalf("expected script source string, got %#v", ss.Script.Source)
	}
	if !strings.Contains(src, "cosineSimilarity") || !strings.Contains(src, query.VectorField) {
		t.Errorf("unexpected script source %q", src)
	}
	if !strings.Contains(src, "+ 1.0") {
		t.Errorf("script must offset scores into [0,2], got %q", src)
	}
	if _, ok := ss.Script.Params["query_vector"]; !ok {
		t.Error("expected query_vector param")
	}
}

func TestTranslate_NoClauses(t *testing.T) {
	if _, err := translate(&query.Request{Size: 10}); err == nil {
		t.Error("expected error for request without clauses")
	}
}
