package database

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/perspective/pkg/changefeed"
	"gorm.io/gorm"
)

// watchedTables are the tables clients can subscribe to.
var watchedTables = map[string]bool{
	ArticlesTable:    true,
	CommentsTable:    true,
	SubscribersTable: true,
	UserRolesTable:   true,
}

// filterColumns are copied into Change.Fields when the model carries them.
var filterColumns = []string{"id", "article_id", "user_id"}

// committed is the last callback of every write chain; a change is published only once
// the statement's own transaction has been committed.
const committed = "gorm:commit_or_rollback_transaction"

type pendingChangesKey struct{}

// pendingChanges holds the changes raised inside an explicit transaction until it commits.
type pendingChanges struct {
	mu      sync.Mutex
	changes []pendingChange
}

type pendingChange struct {
	publisher changefeed.Publisher
	change    changefeed.Change
}

func withPendingChanges(ctx context.Context, pending *pendingChanges) context.Context {
	return context.WithValue(ctx, pendingChangesKey{}, pending)
}

func (p *pendingChanges) add(publisher changefeed.Publisher, change changefeed.Change) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.changes = append(p.changes, pendingChange{publisher: publisher, change: change})
}

func (p *pendingChanges) flush() {
	p.mu.Lock()
	changes := p.changes
	p.changes = nil
	p.mu.Unlock()

	for _, pending := range changes {
		pending.publisher.Publish(pending.change)
	}
}

func RegisterChangeCallbacks(db *gorm.DB, publisher changefeed.Publisher) error {
	if publisher == nil {
		return fmt.Errorf("change feed publisher is nil")
	}

	callbacks := db.Callback()

	if err := callbacks.Create().After(committed).Register("changefeed:create", notify(publisher, changefeed.Insert)); err != nil {
		return fmt.Errorf("register create callback: %w", err)
	}

	if err := callbacks.Update().After(committed).Register("changefeed:update", notify(publisher, changefeed.Update)); err != nil {
		return fmt.Errorf("register update callback: %w", err)
	}

	if err := callbacks.Delete().After(committed).Register("changefeed:delete", notify(publisher, changefeed.Delete)); err != nil {
		return fmt.Errorf("register delete callback: %w", err)
	}

	return nil
}

func notify(publisher changefeed.Publisher, op changefeed.Op) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		if tx.Error != nil || tx.RowsAffected == 0 || tx.Statement == nil {
			return
		}

		table := tx.Statement.Table
		if !watchedTables[table] {
			return
		}

		publish := publisher.Publish

		if pending, ok := tx.Statement.Context.Value(pendingChangesKey{}).(*pendingChanges); ok {
			publish = func(change changefeed.Change) {
				pending.add(publisher, change)
			}
		}

		rv := reflect.Indirect(tx.Statement.ReflectValue)

		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			for i := 0; i < rv.Len(); i++ {
				publish(changeFrom(tx, table, op, reflect.Indirect(rv.Index(i))))
			}
		default:
			publish(changeFrom(tx, table, op, rv))
		}
	}
}

func changeFrom(tx *gorm.DB, table string, op changefeed.Op, row reflect.Value) changefeed.Change {
	change := changefeed.Change{
		Table:  table,
		Op:     op,
		Fields: make(map[string]string),
	}

	if tx.Statement.Schema == nil || row.Kind() != reflect.Struct {
		return change
	}

	for _, column := range filterColumns {
		field := tx.Statement.Schema.LookUpField(column)
		if field == nil {
			continue
		}

		value, zero := field.ValueOf(tx.Statement.Context, row)
		if zero {
			continue
		}

		change.Fields[column] = fmt.Sprint(value)
	}

	change.ID = change.Fields["id"]
	delete(change.Fields, "id")

	return change
}
