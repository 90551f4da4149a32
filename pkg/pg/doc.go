// Package pg wires PostgreSQL through pgx.
//
// Connect builds a pgxpool.Pool from Config and retries until the database
// answers a ping. Migrate applies embedded goose migrations through the
// database/sql bridge of pgx. IsNotFoundError and IsDuplicateKeyError let
// repositories translate driver errors into their own sentinels.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, migrations.FS, cfg, log); err != nil {
//	    return err
//	}
package pg
