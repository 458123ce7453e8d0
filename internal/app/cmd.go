package app

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandServe はAPIサーバーモードで起動することを示す。
	CommandServe Command = "serve"
	// CommandMigrate はデータベースマイグレーションを実行することを示す。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck はヘルスチェックを実行することを示す。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
)

// NewRootCommand はpostboardのルートコマンドを構築する。
// サブコマンドを省略した場合はserveとして動作する。
func NewRootCommand(w io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "postboard",
		Short:         "ユーザーと投稿を管理するAPIサーバー",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd.Context(), w, CommandServe, commandOptions{})
		},
	}

	serveCmd := &cobra.Command{
		Use:   string(CommandServe),
		Short: "APIサーバーを起動する",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd.Context(), w, CommandServe, commandOptions{})
		},
	}

	var down bool
	migrateCmd := &cobra.Command{
		Use:   string(CommandMigrate),
		Short: "データベースマイグレーションを適用する",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd.Context(), w, CommandMigrate, commandOptions{migrateDown: down})
		},
	}
	migrateCmd.Flags().BoolVar(&down, "down", false, "適用済みのマイグレーションをすべてロールバックする")

	var port string
	healthcheckCmd := &cobra.Command{
		Use:   string(CommandHealthcheck),
		Short: "起動中のAPIサーバーの/healthを確認する",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealthcheck(cmd.Context(), port)
		},
	}
	healthcheckCmd.Flags().StringVar(&port, "port", defaultPort(), "確認するAPIサーバーのポート")

	root.AddCommand(serveCmd, migrateCmd, healthcheckCmd)
	return root
}

// commandOptions はサブコマンド固有のフラグ値。
type commandOptions struct {
	migrateDown bool
}

// defaultPort はSERVER_PORT環境変数、未設定の場合は8080を返す。
func defaultPort() string {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		return port
	}
	return "8080"
}
