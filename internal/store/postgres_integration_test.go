// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

//go:build integration

package store_test

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/giftlink/giftlink/internal/store"
)

var _ = Describe("Migrator", Ordered, func() {
	var migrator *store.Migrator

	BeforeAll(func() {
		var err error
		migrator, err = store.NewMigrator(databaseURL)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { _ = migrator.Close() })
	})

	It("reports everything pending on an empty schema", func() {
		Expect(migrator.Down()).To(Succeed())
		st, err := migrator.Status()
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Current).To(BeZero())
		Expect(st.Pending).To(Equal([]uint{1, 2}))
	})

	It("applies every migration", func() {
		Expect(migrator.Up()).To(Succeed())
		version, dirty, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(uint(2)))
		Expect(dirty).To(BeFalse())
	})

	It("steps back and forward one migration", func() {
		Expect(migrator.Steps(-1)).To(Succeed())
		version, _, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(uint(1)))

		Expect(migrator.Steps(1)).To(Succeed())
		version, _, err = migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(uint(2)))
	})

	It("rolls everything back and reapplies", func() {
		Expect(migrator.Down()).To(Succeed())
		version, _, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(BeZero())

		Expect(migrator.Up()).To(Succeed())
	})

	It("forces a version without running anything", func() {
		Expect(migrator.Force(2)).To(Succeed())
		st, err := migrator.Status()
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Dirty).To(BeFalse())
		Expect(st.Pending).To(BeEmpty())
	})
})

var _ = Describe("users schema", Ordered, func() {
	var pool *pgxpool.Pool

	BeforeAll(func() {
		ctx := context.Background()
		migrator, err := store.NewMigrator(databaseURL)
		Expect(err).NotTo(HaveOccurred())
		Expect(migrator.Up()).To(Succeed())
		Expect(migrator.Close()).To(Succeed())

		pool, err = store.Open(ctx, databaseURL, store.DefaultRetryConfig())
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(pool.Close)
	})

	BeforeEach(func() {
		_, err := pool.Exec(context.Background(), `TRUNCATE users`)
		Expect(err).NotTo(HaveOccurred())
	})

	insert := func(id, email string, createdAt time.Time) error {
		_, err := pool.Exec(context.Background(), `
			INSERT INTO users (id, email, first_name, last_name, password_hash, created_at)
			VALUES ($1, $2, 'A', 'B', 'hash', $3)
		`, id, email, createdAt)
		return err
	}

	It("rejects a second row with the same email", func() {
		now := time.Now().UTC()
		Expect(insert("id-1", "a@x.com", now)).To(Succeed())

		err := insert("id-2", "a@x.com", now)
		var pgErr *pgconn.PgError
		Expect(errors.As(err, &pgErr)).To(BeTrue())
		Expect(pgErr.Code).To(Equal(pgerrcode.UniqueViolation))
		Expect(pgErr.ConstraintName).To(Equal("users_email_key"))
	})

	It("rejects updatedAt earlier than createdAt", func() {
		now := time.Now().UTC()
		Expect(insert("id-1", "a@x.com", now)).To(Succeed())

		_, err := pool.Exec(context.Background(),
			`UPDATE users SET updated_at = $1 WHERE id = 'id-1'`, now.Add(-time.Hour))
		var pgErr *pgconn.PgError
		Expect(errors.As(err, &pgErr)).To(BeTrue())
		Expect(pgErr.Code).To(Equal(pgerrcode.CheckViolation))
	})
})
