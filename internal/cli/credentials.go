package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dl-alexandre/chspool/internal/auth"
	"github.com/dl-alexandre/chspool/internal/logging"
	"github.com/dl-alexandre/chspool/internal/utils"
	"github.com/spf13/cobra"
)

// newStorage is replaced in tests
var newStorage = func() auth.StorageBackend {
	return auth.NewKeyringStorage(utils.KeyringService)
}

var credentialsPassword string

var credentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Manage server passwords in the system keyring",
	Long: `Store or remove ClickHouse passwords in the system keyring. A stored
password is used by 'chspool FILENAME --keyring-user NAME'.`,
}

var credentialsSetCmd = &cobra.Command{
	Use:   "set NAME",
	Short: "Store the password for a user",
	Long: `Store the password for NAME in the system keyring. The password is read
from --password or, when that flag is absent, from the first line of stdin.`,
	Args: exactArgs(1),
	RunE: runCredentialsSet,
}

var credentialsDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Remove the stored password for a user",
	Args:  exactArgs(1),
	RunE:  runCredentialsDelete,
}

func init() {
	credentialsSetCmd.Flags().StringVar(&credentialsPassword, "password", "", "Password to store (read from stdin when omitted)")

	credentialsCmd.AddCommand(credentialsSetCmd)
	credentialsCmd.AddCommand(credentialsDeleteCmd)
	rootCmd.AddCommand(credentialsCmd)
}

func runCredentialsSet(cmd *cobra.Command, args []string) error {
	flags := GetGlobalFlags()
	out := NewOutputWriter(cmd.OutOrStdout(), cmd.ErrOrStderr(), flags.JSON, flags.Quiet, flags.Verbose)
	username := args[0]

	password := credentialsPassword
	if !cmd.Flags().Changed("password") {
		var err error
		password, err = readPassword(cmd.InOrStdin())
		if err != nil {
			return invalidArgument(err)
		}
	}

	storage := newStorage()
	if err := storage.Save(username, password); err != nil {
		return keyringError(err, username, storage)
	}

	logger.Debug("Stored password", logging.F("username", username), logging.F("backend", storage.Name()))
	return out.WriteSuccess("credentials set", map[string]string{
		"username": username,
		"backend":  storage.Name(),
		"status":   "stored",
	})
}

func runCredentialsDelete(cmd *cobra.Command, args []string) error {
	flags := GetGlobalFlags()
	out := NewOutputWriter(cmd.OutOrStdout(), cmd.ErrOrStderr(), flags.JSON, flags.Quiet, flags.Verbose)
	username := args[0]

	storage := newStorage()
	if err := storage.Delete(username); err != nil {
		return keyringError(err, username, storage)
	}

	return out.WriteSuccess("credentials delete", map[string]string{
		"username": username,
		"backend":  storage.Name(),
		"status":   "deleted",
	})
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" && errors.Is(err, io.EOF) {
		return "", fmt.Errorf("no password given: use --password or pipe it on stdin")
	}
	return line, nil
}

func keyringError(err error, username string, storage auth.StorageBackend) error {
	return utils.WrapAppError(utils.NewCLIError(utils.ErrCodeKeyringError, err.Error()).
		WithContext("username", username).
		WithContext("backend", storage.Name()).
		Build(), err)
}
