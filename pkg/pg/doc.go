// Package pg bootstraps PostgreSQL access over pgx/v5: a retrying pooled
// Connect, goose migrations from an embedded FS (MigrateFS), a Healthcheck
// closure and helpers that classify pgx errors.
//
// Configuration is read from environment variables via Config:
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.MigrateFS(ctx, pool, form.Migrations, form.MigrationsDir, cfg, log); err != nil {
//		return err
//	}
//
// [IsNotFoundError] and [IsDuplicateKeyError] unwrap pgx errors so stores can
// map them to their own sentinels.
package pg
