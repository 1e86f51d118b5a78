package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/xaenox/vida-bot/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	UseInMemory bool
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config DatabaseConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	storage := &PostgresStorage{db: db}

	// Initialize database schema
	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %v", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %v", err)
	}

	_, err = s.db.Exec(string(migrationSQL))
	if err != nil {
		return fmt.Errorf("error executing migrations: %v", err)
	}

	return nil
}

func (s *PostgresStorage) SaveEvent(ctx context.Context, event *models.InboundEvent) error {
	query := `
		INSERT INTO webhook_logs (id, instance_name, event_type, phone_number, message_content, raw_data, processed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING received_at`

	err := s.db.QueryRowContext(
		ctx,
		query,
		event.ID,
		event.InstanceName,
		event.EventType,
		event.SenderID,
		event.RawText,
		[]byte(event.RawPayload),
		event.Processed,
	).Scan(&event.ReceivedAt)

	if err != nil {
		return fmt.Errorf("error saving event: %v", err)
	}

	return nil
}

func (s *PostgresStorage) MarkEventProcessed(ctx context.Context, eventID string) error {
	query := `
		UPDATE webhook_logs
		SET processed = TRUE
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, eventID)
	if err != nil {
		return fmt.Errorf("error marking event processed: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %v", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("event not found")
	}

	return nil
}

func (s *PostgresStorage) CreateAppointment(ctx context.Context, appointment *models.Appointment) error {
	query := `
		INSERT INTO appointments (id, sender_id, title, start_time, location, source_event_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := s.db.QueryRowContext(
		ctx,
		query,
		appointment.ID,
		appointment.SenderID,
		appointment.Title,
		appointment.StartTime,
		appointment.Location,
		appointment.SourceEventID,
	).Scan(&appointment.CreatedAt)

	if err != nil {
		return fmt.Errorf("error creating appointment: %v", err)
	}

	return nil
}

func (s *PostgresStorage) CreateReminder(ctx context.Context, reminder *models.Reminder) error {
	query := `
		INSERT INTO reminders (id, sender_id, title, due_at, source_event_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := s.db.QueryRowContext(
		ctx,
		query,
		reminder.ID,
		reminder.SenderID,
		reminder.Title,
		reminder.DueAt,
		reminder.SourceEventID,
	).Scan(&reminder.CreatedAt)

	if err != nil {
		return fmt.Errorf("error creating reminder: %v", err)
	}

	return nil
}

func (s *PostgresStorage) CreateTransaction(ctx context.Context, transaction *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, sender_id, amount, category, description, occurred_at, source_event_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := s.db.QueryRowContext(
		ctx,
		query,
		transaction.ID,
		transaction.SenderID,
		transaction.Amount,
		transaction.Category,
		transaction.Description,
		transaction.OccurredAt,
		transaction.SourceEventID,
	).Scan(&transaction.CreatedAt)

	if err != nil {
		return fmt.Errorf("error creating transaction: %v", err)
	}

	return nil
}

func (s *PostgresStorage) UpcomingAppointments(ctx context.Context, senderID string, from time.Time, limit int) ([]*models.Appointment, error) {
	query := `
		SELECT id, sender_id, title, start_time, location, source_event_id, created_at
		FROM appointments
		WHERE sender_id = $1 AND start_time >= $2
		ORDER BY start_time ASC, seq ASC
		LIMIT $3`

	rows, err := s.db.QueryContext(ctx, query, senderID, from, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying upcoming appointments: %v", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

func (s *PostgresStorage) AppointmentsBySender(ctx context.Context, senderID string, limit int) ([]*models.Appointment, error) {
	query := `
		SELECT id, sender_id, title, start_time, location, source_event_id, created_at
		FROM appointments
		WHERE sender_id = $1
		ORDER BY start_time ASC, seq ASC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, senderID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying appointments: %v", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

func (s *PostgresStorage) RemindersBySender(ctx context.Context, senderID string, limit int) ([]*models.Reminder, error) {
	query := `
		SELECT id, sender_id, title, due_at, source_event_id, created_at
		FROM reminders
		WHERE sender_id = $1
		ORDER BY due_at ASC, seq ASC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, senderID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying reminders: %v", err)
	}
	defer rows.Close()

	var reminders []*models.Reminder
	for rows.Next() {
		reminder := &models.Reminder{}
		err := rows.Scan(
			&reminder.ID,
			&reminder.SenderID,
			&reminder.Title,
			&reminder.DueAt,
			&reminder.SourceEventID,
			&reminder.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning reminder: %v", err)
		}
		reminders = append(reminders, reminder)
	}

	return reminders, rows.Err()
}

func (s *PostgresStorage) TransactionsBySender(ctx context.Context, senderID string, limit int) ([]*models.Transaction, error) {
	query := `
		SELECT id, sender_id, amount, category, description, occurred_at, source_event_id, created_at
		FROM transactions
		WHERE sender_id = $1
		ORDER BY occurred_at DESC, seq DESC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, senderID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions: %v", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		transaction := &models.Transaction{}
		err := rows.Scan(
			&transaction.ID,
			&transaction.SenderID,
			&transaction.Amount,
			&transaction.Category,
			&transaction.Description,
			&transaction.OccurredAt,
			&transaction.SourceEventID,
			&transaction.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning transaction: %v", err)
		}
		transactions = append(transactions, transaction)
	}

	return transactions, rows.Err()
}

func scanAppointments(rows *sql.Rows) ([]*models.Appointment, error) {
	var appointments []*models.Appointment
	for rows.Next() {
		appointment := &models.Appointment{}
		err := rows.Scan(
			&appointment.ID,
			&appointment.SenderID,
			&appointment.Title,
			&appointment.StartTime,
			&appointment.Location,
			&appointment.SourceEventID,
			&appointment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning appointment: %v", err)
		}
		appointments = append(appointments, appointment)
	}

	return appointments, rows.Err()
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
