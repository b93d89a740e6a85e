package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := Select("id", "team1").
		From("matches").
		Where(Eq("sport_type", "Football"), IsNull("reminder_sent_at")).
		OrderBy("match_date", "time_start").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, team1 FROM matches WHERE sport_type = $1 AND reminder_sent_at IS NULL ORDER BY match_date, time_start LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "Football" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderSearchAndPaging(t *testing.T) {
	t.Parallel()

	query, args, err := Select("id").
		From("activity_logs").
		Where(
			In("action", []any{"LOGIN", "LOGOUT"}),
			ILikeAny("50%_off", "user_name", "target"),
		).
		OrderBy("created_at DESC").
		Limit(20).
		Offset(40).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM activity_logs WHERE action IN ($1, $2) AND (user_name ILIKE $3 OR target ILIKE $4) ORDER BY created_at DESC LIMIT 20 OFFSET 40"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 {
		t.Fatalf("unexpected args count: got=%d want=4", len(args))
	}
	if args[2] != `%50\%\_off%` {
		t.Fatalf("unexpected escaped pattern: got=%v", args[2])
	}
}

func TestExprCondition(t *testing.T) {
	t.Parallel()

	query, args, err := Select("id").
		From("matches").
		Where(Expr("LOWER(sport_type) = LOWER(?)", "Futsal"), Expr("status <> ?", "COMPLETED")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM matches WHERE LOWER(sport_type) = LOWER($1) AND status <> $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "Futsal" || args[1] != "COMPLETED" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInConditionEmptyMatchesNothing(t *testing.T) {
	t.Parallel()

	query, args, err := Select("id").From("subscribers").Where(In("public_id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT id FROM subscribers WHERE 1=0" || len(args) != 0 {
		t.Fatalf("unexpected query: %s args=%+v", query, args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := Update("matches").
		Set("status", "ONGOING").
		SetExpr("updated_at", "NOW()").
		SetExpr("sports", "?::jsonb", `["Futsal"]`).
		Where(Eq("id", "m1"), Eq("status", "SCHEDULED")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE matches SET status = $1, updated_at = NOW(), sports = $2::jsonb WHERE id = $3 AND status = $4"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != "ONGOING" || args[2] != "m1" || args[3] != "SCHEDULED" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := Update("matches").Set("status", "ONGOING").ToSQL(); err == nil {
		t.Fatalf("expected error for unconditioned update")
	}
}

func TestDeleteBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := DeleteFrom("matches").Where(Eq("id", "m1")).ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}
	if query != "DELETE FROM matches WHERE id = $1" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 1 || args[0] != "m1" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := DeleteFrom("matches").ToSQL(); err == nil {
		t.Fatalf("expected error for unconditioned delete")
	}
}

func TestInsertModel(t *testing.T) {
	t.Parallel()

	type row struct {
		ID      string `db:"id"`
		Email   string `db:"email"`
		Skipped string `db:"-"`
		hidden  string
	}

	query, args, err := InsertModel("subscribers", &row{ID: "s1", Email: "a@b.c", hidden: "x"}, " ON CONFLICT DO NOTHING ")
	if err != nil {
		t.Fatalf("insert model: %v", err)
	}
	if query != "INSERT INTO subscribers (id, email) VALUES ($1, $2) ON CONFLICT DO NOTHING" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertModel("subscribers", 42, ""); err == nil {
		t.Fatalf("expected error for non-struct model")
	}
}
