package solr

import (
	"errors"
	"testing"
	"time"
)

func TestExpression_Build(t *testing.T) {
	day := time.Date(2012, 5, 1, 10, 30, 15, 999_000_000, time.UTC)
	tags := []string{"a", "b"}
	lo, name := 10, "ann"

	tests := []struct {
		name string
		expr *Expression
		want string
	}{
		{"empty", NewExpression(), "*:*"},
		{"equals string", NewExpression().Where("title").Equals("hello"), `title:"hello"`},
		{"where with value", NewExpression().Where("id", 42), "id:42"},
		{"implicit and", NewExpression().Where("a", "x").Where("b", true), `a:"x" AND b:true`},
		{"in", NewExpression().Where("f").In("a", "b"), `f:("a" "b")`},
		{"in numbers", NewExpression().Where("n").In(1, 2, 3), "n:(1 2 3)"},
		{"in slice", NewExpression().Where("f").In(tags), `f:("a" "b")`},
		{"in slice spread", NewExpression().Where("f").In([]any{tags[0], tags[1]}...), `f:("a" "b")`},
		{"in int slice", NewExpression().Where("n").In([]int{1, 2}), "n:(1 2)"},
		{"equals pointer", NewExpression().Where("name").Equals(&name), `name:"ann"`},
		{"pointer bound", NewExpression().Where("n").Between(&lo, (*int)(nil)), "n:[10 TO *]"},
		{"in delimited", NewExpression().Where("f").InDelimited("a, b,,c", ""), `f:("a" "b" "c")`},
		{"in delimited custom sep", NewExpression().Where("f").InDelimited("a|b", "|"), `f:("a" "b")`},
		{"between", NewExpression().Where("n").Between(1, 5), "n:[1 TO 5]"},
		{"lt", NewExpression().Where("f").Lt(5), "f:[* TO 5]"},
		{"gt", NewExpression().Where("f").Gt(5), "f:[5 TO *]"},
		{"date range", NewExpression().Where("d").Gt(day), "d:[2012-05-01T10:30:15Z TO *]"},
		{"zero date bound is open", NewExpression().Where("d").Between(time.Time{}, 3), "d:[* TO 3]"},
		{"date equals quoted", NewExpression().Where("d").Equals(day), `d:"2012-05-01T10:30:15Z"`},
		{"escaped quote", NewExpression().Where("t").Equals(`say "hi"`), `t:"say \"hi\""`},
		{
			"or",
			NewExpression().Where("a", 1).Or().Where("b", 2),
			"a:1 OR b:2",
		},
		{
			"group",
			NewExpression().Where("type", "book").Begin().Where("year").Gt(2000).Or().Where("tag").In("x", "y").End(),
			`type:"book" AND ( year:[2000 TO *] OR tag:("x" "y") )`,
		},
		{
			"group first",
			NewExpression().Begin().Where("a", 1).End().Where("b", 2),
			"( a:1 ) AND b:2",
		},
		{
			"any",
			NewExpression().Any(map[string]any{"b": "y", "a": "x"}),
			`( a:"x" OR b:"y" )`,
		},
		{
			"any after predicate",
			NewExpression().Where("id", 1).Any(map[string]any{"a": 2}),
			"id:1 AND ( a:2 )",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.expr.Build()
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if got != tt.want {
				t.Errorf("Build() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpression_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		expr *Expression
	}{
		{"equals without where", NewExpression().Equals(1)},
		{"in without where", NewExpression().In(1)},
		{"between without where", NewExpression().Between(1, 2)},
		{"where while open", NewExpression().Where("a").Where("b")},
		{"unclosed predicate", NewExpression().Where("a")},
		{"unbalanced end", NewExpression().End()},
		{"unclosed group", NewExpression().Begin().Where("a", 1)},
		{"empty field", NewExpression().Where("")},
		{"too many values", NewExpression().Where("a", 1, 2)},
		{"in without values", NewExpression().Where("a").In()},
		{"or while open", NewExpression().Where("a").Or()},
		{"equals slice", NewExpression().Where("a").Equals([]string{"x"})},
		{"where with slice", NewExpression().Where("a", []int{1, 2})},
		{"in map", NewExpression().Where("a").In(map[string]int{"x": 1})},
		{"struct bound", NewExpression().Where("a").Between(struct{}{}, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.expr.Build()
			if err == nil {
				t.Fatal("expected usage error")
			}
			if !errors.Is(err, ErrUsage) {
				t.Errorf("error = %v, want ErrUsage", err)
			}
			var ue *UsageError
			if !errors.As(err, &ue) {
				t.Errorf("error type = %T, want *UsageError", err)
			}
		})
	}
}

func TestExpression_FirstErrorWins(t *testing.T) {
	e := NewExpression().Equals(1).Where("")
	var ue *UsageError
	if !errors.As(e.Err(), &ue) {
		t.Fatalf("Err() = %v", e.Err())
	}
	if ue.Op != "expression.equals" {
		t.Errorf("Op = %q, want %q", ue.Op, "expression.equals")
	}
}

func TestExpression_MustBuildPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewExpression().Where("a").MustBuild()
}
