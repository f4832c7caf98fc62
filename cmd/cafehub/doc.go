// Command cafehub runs the café directory and manages its database.
//
//	cafehub serve             # start the HTTP server
//	cafehub migrate           # run pending migrations
//	cafehub migrate:rollback  # undo the last batch
//	cafehub migrate:status
//	cafehub seed              # insert sample cafes
//	cafehub route:list        # list API routes
//
// Configuration comes from config/app.json, .env and the environment.
package main
