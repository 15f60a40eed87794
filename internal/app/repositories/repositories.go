package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx so repositories can run inside a transaction
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository     *UserRepository
	BootcampRepository *BootcampRepository
	CourseRepository   *CourseRepository
	ResultsRepository  *ResultsRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		UserRepository:     NewUserRepository(db),
		BootcampRepository: NewBootcampRepository(db),
		CourseRepository:   NewCourseRepository(db),
		ResultsRepository:  NewResultsRepository(db),
	}
}
