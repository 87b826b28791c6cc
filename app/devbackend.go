package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Guyuepp/market-front/internal/devbackend"
	mysqlRepo "github.com/Guyuepp/market-front/internal/repository/mysql"
)

func runDevBackend(_ *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			logrus.Errorf("got error when getting sql.DB from gorm.DB: %v", err)
			return
		}
		if err := sqlDB.Close(); err != nil {
			logrus.Errorf("got error when closing the DB connection: %v", err)
		}
	}()

	if err := mysqlRepo.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	listings := mysqlRepo.NewProductRepository(db)
	comments := mysqlRepo.NewCommentRepository(db)
	if err := devbackend.Seed(ctx, listings, envInt("DEVBACKEND_SEED", defaultSeed)); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    envString("DEVBACKEND_ADDRESS", defaultBackendAddress),
		Handler: devbackend.NewRouter(devbackend.NewHandler(listings, comments)),
	}
	return run(ctx, srv, nil)
}

// openDB opens DATABASE_DRIVER, mysql by default, retrying while the database starts
func openDB() (*gorm.DB, error) {
	if envString("DATABASE_DRIVER", "mysql") == "sqlite" {
		return gorm.Open(sqlite.Open(envString("SQLITE_PATH", defaultSQLitePath)), &gorm.Config{})
	}

	connection := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s",
		envString("DATABASE_USER", "root"),
		envString("DATABASE_PASS", ""),
		envString("DATABASE_HOST", "127.0.0.1"),
		envString("DATABASE_PORT", "3306"),
		envString("DATABASE_NAME", "market"))
	val := url.Values{}
	val.Add("parseTime", "1")
	val.Add("loc", "Local")
	dsn := fmt.Sprintf("%s?%s", connection, val.Encode())

	var (
		db  *gorm.DB
		err error
	)
	for i := 0; i < dbMaxRetry; i++ {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
		if err == nil {
			sqlDB, dbErr := db.DB()
			if dbErr == nil {
				if err = sqlDB.Ping(); err == nil {
					return db, nil
				}
				_ = sqlDB.Close()
			} else {
				err = dbErr
			}
		}
		logrus.Warnf("failed to connect to database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
		time.Sleep(dbRetryIntervalSec * time.Second)
	}
	return nil, fmt.Errorf("could not connect to database after retries: %w", err)
}
