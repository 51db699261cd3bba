package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"resumaker/internal/config"
	"resumaker/internal/database"
	"resumaker/internal/store"
)

// 运维小工具：查看与清理持久化状态。
//
//	admin --action=show        打印身份快照与简历集合
//	admin --action=clear-user  清除身份快照（等价于退出登录）
//	admin --action=clear-all   清空身份与简历集合
func main() {
	var (
		action  = flag.String("action", "show", "show | clear-user | clear-all")
		dbHost  = flag.String("db-host", "", "数据库 Host（可选，默认读 DATABASE_HOST）")
		dbPort  = flag.Int("db-port", 0, "数据库 Port（可选，默认读 DATABASE_PORT）")
		dbName  = flag.String("db-name", "", "数据库名（可选，默认读 POSTGRES_DB）")
		dbUser  = flag.String("db-user", "", "数据库用户（可选，默认读 POSTGRES_USER）")
		dbPass  = flag.String("db-password", "", "数据库密码（可选，默认读 POSTGRES_PASSWORD）")
		sslMode = flag.String("db-sslmode", "", "数据库 SSLMODE（可选，默认读 DATABASE_SSLMODE）")
	)
	flag.Parse()

	dbCfg, err := loadDatabaseConfig(*dbHost, *dbPort, *dbName, *dbUser, *dbPass, *sslMode)
	if err != nil {
		log.Fatalf("load database config: %v", err)
	}

	db, err := database.InitDatabase(dbCfg)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	kv, err := store.NewGormKV(db)
	if err != nil {
		log.Fatalf("init kv storage: %v", err)
	}
	st := store.New(kv)
	ctx := context.Background()

	switch strings.TrimSpace(*action) {
	case "show":
		show(ctx, st)
	case "clear-user":
		if err := st.ClearUser(ctx); err != nil {
			log.Fatalf("clear user: %v", err)
		}
		fmt.Println("身份快照已清除（简历集合保留）")
	case "clear-all":
		if err := st.ClearUser(ctx); err != nil {
			log.Fatalf("clear user: %v", err)
		}
		if err := st.SaveResumes(ctx, nil); err != nil {
			log.Fatalf("clear resumes: %v", err)
		}
		fmt.Println("身份快照与简历集合均已清空")
	default:
		log.Fatalf("unknown action: %s", *action)
	}
}

func show(ctx context.Context, st *store.Store) {
	user, err := st.LoadUser(ctx)
	if err != nil {
		log.Fatalf("load user: %v", err)
	}
	if user == nil {
		fmt.Println("身份快照: <未登录>")
	} else {
		fmt.Printf("身份快照: id=%s email=%s name=%s\n", user.ID, user.Email, user.Name)
	}

	resumes, err := st.LoadResumes(ctx)
	if err != nil {
		log.Fatalf("load resumes: %v", err)
	}
	fmt.Printf("简历集合: %d 份\n", len(resumes))
	for _, r := range resumes {
		fmt.Printf("  - id=%s template=%d created=%s title=%q\n",
			r.ID, r.TemplateID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Content.JobTitle)
	}
}

func loadDatabaseConfig(host string, port int, name, user, password, sslmode string) (config.DatabaseConfig, error) {
	if strings.TrimSpace(host) == "" {
		host = os.Getenv("DATABASE_HOST")
	}
	if port <= 0 {
		if env := strings.TrimSpace(os.Getenv("DATABASE_PORT")); env != "" {
			p, err := strconv.Atoi(env)
			if err != nil {
				return config.DatabaseConfig{}, fmt.Errorf("parse DATABASE_PORT: %w", err)
			}
			port = p
		}
	}
	if strings.TrimSpace(name) == "" {
		name = os.Getenv("POSTGRES_DB")
	}
	if strings.TrimSpace(user) == "" {
		user = os.Getenv("POSTGRES_USER")
	}
	if strings.TrimSpace(password) == "" {
		password = os.Getenv("POSTGRES_PASSWORD")
	}
	if strings.TrimSpace(sslmode) == "" {
		sslmode = os.Getenv("DATABASE_SSLMODE")
	}

	if strings.TrimSpace(host) == "" {
		host = "localhost"
	}
	if port <= 0 {
		port = 5432
	}
	if strings.TrimSpace(sslmode) == "" {
		sslmode = "disable"
	}
	if strings.TrimSpace(name) == "" {
		return config.DatabaseConfig{}, fmt.Errorf("database name is required (POSTGRES_DB)")
	}
	if strings.TrimSpace(user) == "" {
		return config.DatabaseConfig{}, fmt.Errorf("database user is required (POSTGRES_USER)")
	}
	if strings.TrimSpace(password) == "" {
		return config.DatabaseConfig{}, fmt.Errorf("database password is required (POSTGRES_PASSWORD)")
	}

	return config.DatabaseConfig{
		Host:     host,
		Port:     port,
		Name:     name,
		User:     user,
		Password: password,
		SSLMode:  sslmode,
	}, nil
}
