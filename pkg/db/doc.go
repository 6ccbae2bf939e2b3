// Package db wraps [github.com/jackc/pgx/v5/pgxpool] with the small set of
// helpers a shipy application needs: a retrying Connect, row-as-map queries,
// transactions, a readiness check and goose migrations.
//
//	pool, err := db.Connect(ctx, db.Config{ConnectionString: cfg.DatabaseURL})
//	if err != nil {
//		return err
//	}
//
//	todos, err := db.Query(ctx, pool, "SELECT id, title, done FROM todos ORDER BY id")
//	todo, err := db.One(ctx, pool, "SELECT * FROM todos WHERE id = $1", id)
//	n, err := db.Exec(ctx, pool, "DELETE FROM todos WHERE done")
//
// Query, One and Exec accept anything implementing [Querier], so they work
// inside [WithTx] as well:
//
//	err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
//		_, err := db.Exec(ctx, tx, "UPDATE todos SET done = NOT done WHERE id = $1", id)
//		return err
//	})
//
// Migrations are plain goose SQL files, applied with [Migrate] from an
// embedded filesystem or [MigrateDir] from disk.
package db
