// Package bootstrap runs an application through a uniform lifecycle:
// start components, run hooks, check readiness, run the task, then shut
// down in reverse order.
//
//	app, err := bootstrap.NewApp(&cfg)
//	_ = app.RegisterComponent(loop)
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return ui.Run(ctx)
//	})
//
// A SIGINT or SIGTERM cancels the task context.
package bootstrap
