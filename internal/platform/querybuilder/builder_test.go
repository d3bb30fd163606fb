package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("pools").
		Where(Eq("created_by", int64(7)), IsNull("deleted_at")).
		OrderBy("created_at DESC").
		Limit(20).
		Offset(40).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name FROM pools WHERE created_by = $1 AND deleted_at IS NULL ORDER BY created_at DESC LIMIT 20 OFFSET 40"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != int64(7) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_JoinAndGroupBy(t *testing.T) {
	query, args, err := Select("p.user_id", "COUNT(*) AS correct_count").
		From("pool_predictions p").
		Join("JOIN pool_matches m ON m.id = p.match_id").
		Where(Eq("m.pool_id", int64(3)), Expr("p.correct = ?", true)).
		GroupBy("p.user_id").
		OrderBy("correct_count DESC").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT p.user_id, COUNT(*) AS correct_count FROM pool_predictions p " +
		"JOIN pool_matches m ON m.id = p.match_id " +
		"WHERE m.pool_id = $1 AND p.correct = $2 GROUP BY p.user_id ORDER BY correct_count DESC"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(3) || args[1] != true {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInShortCircuits(t *testing.T) {
	query, args, err := Select("id").
		From("pool_matches").
		Where(In("id", nil)).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM pool_matches WHERE 1=0"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_UpsertSuffix(t *testing.T) {
	query, args, err := InsertInto("pool_participants").
		Columns("pool_id", "user_id").
		Values(int64(1), int64(2)).
		Suffix("ON CONFLICT (pool_id, user_id) DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO pool_participants (pool_id, user_id) VALUES ($1, $2) ON CONFLICT (pool_id, user_id) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("pool_matches").
		Set("status", "finished").
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", int64(9))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE pool_matches SET status = $1, updated_at = NOW() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "finished" || args[1] != int64(9) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("pool_predictions").
		Where(Eq("pool_id", int64(5))).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM pool_predictions WHERE pool_id = $1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != int64(5) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder_RequiresConditions(t *testing.T) {
	if _, _, err := DeleteFrom("pools").ToSQL(); err == nil {
		t.Fatal("expected error for unconditioned delete")
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		ID     int64  `db:"id"`
		Name   string `db:"name"`
		Hidden string `db:"-"`
	}

	query, args, err := InsertModel("pools", row{ID: 1, Name: "matchday 12"}, "RETURNING id")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO pools (id, name) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(1) || args[1] != "matchday 12" {
		t.Fatalf("unexpected args: %+v", args)
	}
}
