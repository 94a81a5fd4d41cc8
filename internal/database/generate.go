package database

// To regenerate sqlc/schema.sql and the query code after adding a migration:
//   go generate ./internal/database

//go:generate sh -c "cd ../.. && go run ./internal/database/tools"
//go:generate sh -c "cd ../.. && sqlc generate -f internal/database/sqlc/sqlc.yaml"
