package telegram

import (
	"testing"
)

const getUpdatesBody = `{
	"ok": true,
	"result": [
		{"update_id": 9007199254740993, "inline_query": {"id": "q1", "from": {"id": 7, "first_name": "Ann"}, "query": "Score: 5"}},
		{"update_id": 2, "callback_query": {"id": "c1", "from": {"id": 42}, "data": "Score: *6*|@all", "inline_message_id": "im1"}}
	]
}`

func mustParse(t *testing.T, body string) Value {
	t.Helper()
	v, err := ParseValue([]byte(body))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return v
}

func TestValueMissingLookupsAreNull(t *testing.T) {
	v := mustParse(t, getUpdatesBody)

	tests := []struct {
		name string
		got  Value
	}{
		{"missing field", v.Get("nope")},
		{"field of missing field", v.Get("nope").Get("deeper")},
		{"index past end", v.Get("result").Index(5)},
		{"negative index", v.Get("result").Index(-1)},
		{"field of array", v.Get("result").Get("id")},
		{"index of object", v.Index(0)},
	}
	for _, tt := range tests {
		if !tt.got.IsNull() {
			t.Errorf("%s: expected null, got %s", tt.name, tt.got)
		}
	}
}

func TestValueScalarPassThrough(t *testing.T) {
	v := mustParse(t, getUpdatesBody)

	ok := v.Get("ok")
	if got := ok.Get("anything").Index(3); got.Kind() != KindBool {
		t.Fatalf("expected the bool back, got %s", got.Kind())
	}
	if b, isBool := ok.Get("x").AsBool(); !isBool || !b {
		t.Fatalf("AsBool() = %v %v", b, isBool)
	}

	query := v.Get("result").Index(0).Get("inline_query").Get("query")
	if s, _ := query.Get("x").AsString(); s != "Score: 5" {
		t.Fatalf("unexpected string %q", s)
	}
}

func TestValueLargeIntegers(t *testing.T) {
	v := mustParse(t, getUpdatesBody)
	id, ok := v.Get("result").Index(0).Get("update_id").AsInt()
	if !ok || id != 9007199254740993 {
		t.Fatalf("AsInt() = %d %v", id, ok)
	}
	if _, ok := v.Get("result").Index(0).Get("inline_query").Get("query").AsInt(); ok {
		t.Fatal("a string must not convert to int")
	}
}

func TestValueAsFloat(t *testing.T) {
	v := Wrap(map[string]any{"ratio": 2.5, "count": 4, "name": "x"})

	if f, ok := v.Get("ratio").AsFloat(); !ok || f != 2.5 {
		t.Fatalf("ratio = %v %v", f, ok)
	}
	if f, ok := v.Get("count").AsFloat(); !ok || f != 4 {
		t.Fatalf("count = %v %v", f, ok)
	}
	if _, ok := v.Get("name").AsFloat(); ok {
		t.Fatal("a string must not convert to float")
	}
	if _, ok := v.Get("ratio").AsInt(); ok {
		t.Fatal("2.5 must not convert to int")
	}
}

func TestValueContains(t *testing.T) {
	v := mustParse(t, getUpdatesBody)
	first := v.Get("result").Index(0)

	if !first.Contains("inline_query") || first.Contains("callback_query") {
		t.Fatal("unexpected membership on object")
	}
	if v.Get("result").Contains("0") {
		t.Fatal("arrays never contain anything")
	}
	if v.Get("ok").Contains("ok") || (Value{}).Contains("ok") {
		t.Fatal("scalars never contain anything")
	}
}

func TestValueElementsRestartable(t *testing.T) {
	v := mustParse(t, getUpdatesBody)
	result := v.Get("result")

	collect := func() []int64 {
		var ids []int64
		for update := range result.Elements() {
			id, _ := update.Get("update_id").AsInt()
			ids = append(ids, id)
		}
		return ids
	}

	first, second := collect(), collect()
	if len(first) != 2 || len(second) != 2 || first[1] != 2 || second[1] != 2 {
		t.Fatalf("iteration not restartable: %v %v", first, second)
	}
	if result.Len() != 2 {
		t.Fatalf("Len() = %d", result.Len())
	}

	for range v.Get("ok").Elements() {
		t.Fatal("scalar must not yield elements")
	}

	seen := 0
	for range result.Elements() {
		seen++
		break
	}
	if seen != 1 {
		t.Fatalf("early break visited %d elements", seen)
	}
}

func TestValueDecodeUpdate(t *testing.T) {
	v := mustParse(t, getUpdatesBody)

	var update Update
	if err := v.Get("result").Index(1).Decode(&update); err != nil {
		t.Fatalf("decode: %v", err)
	}
	cb := update.CallbackQuery
	if update.UpdateID != 2 || cb == nil || update.InlineQuery != nil {
		t.Fatalf("unexpected update %+v", update)
	}
	if cb.Data != "Score: *6*|@all" || cb.InlineMessageID != "im1" || cb.SenderID() != 42 {
		t.Fatalf("unexpected callback %+v", cb)
	}

	var big Update
	if err := v.Get("result").Index(0).Decode(&big); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if big.UpdateID != 9007199254740993 || big.InlineQuery.SenderID() != 7 {
		t.Fatalf("unexpected update %+v", big)
	}
}

func TestWrapGoValues(t *testing.T) {
	v := Wrap(map[string]any{"n": 3, "list": []any{"a", nil}})
	if n, _ := v.Get("n").AsInt(); n != 3 {
		t.Fatalf("n = %d", n)
	}
	if !v.Get("list").Index(1).IsNull() {
		t.Fatal("nil element should be null")
	}
	if got := Wrap(InlineKeyboardButton{Text: "+"}).Get("text"); got.String() != `"+"` {
		t.Fatalf("struct not wrapped through JSON: %s", got)
	}
}
