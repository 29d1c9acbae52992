package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// ErrTokenNotFound OAuthトークンが保存されていない
var ErrTokenNotFound = errors.New("OAuthトークンが見つかりません。`ooo-report auth` を実行してください")

// GoogleClientOption 認証情報の種類に応じてCalendar APIのクライアントオプションを作成する。
// サービスアカウントはそのまま、OAuthクライアントは保存済みトークンを使う
func GoogleClientOption(ctx context.Context, credentialsJSON []byte, tokenFile string) (option.ClientOption, error) {
	var header struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(credentialsJSON, &header); err != nil {
		return nil, fmt.Errorf("google認証情報のJSON解析に失敗しました: %w", err)
	}

	if header.Type == "service_account" {
		// サービスアカウント認証でCalendar APIクライアントを作成
		creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, calendar.CalendarReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("google認証情報の読み込みに失敗しました: %w", err)
		}
		return option.WithCredentials(creds), nil
	}

	conf, err := google.ConfigFromJSON(credentialsJSON, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("OAuthクライアント設定の読み込みに失敗しました: %w", err)
	}
	token, err := loadToken(tokenFile)
	if err != nil {
		return nil, err
	}

	source := &persistingTokenSource{
		base: conf.TokenSource(ctx, token),
		path: tokenFile,
		last: token,
	}
	return option.WithTokenSource(oauth2.ReuseTokenSource(token, source)), nil
}

// persistingTokenSource リフレッシュされたトークンをファイルに保存し直す
type persistingTokenSource struct {
	base oauth2.TokenSource
	path string

	mu   sync.Mutex
	last *oauth2.Token
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil || s.last.AccessToken != token.AccessToken {
		if err := saveToken(s.path, token); err != nil {
			return nil, err
		}
		s.last = token
	}
	return token, nil
}

// Authorize インストールアプリ形式のOAuthフローを実行してトークンを保存する。
// ローカルの一時サーバーで認可コードを受け取る
func Authorize(ctx context.Context, credentialsJSON []byte, tokenFile string, out io.Writer) error {
	conf, err := google.ConfigFromJSON(credentialsJSON, calendar.CalendarReadonlyScope)
	if err != nil {
		return fmt.Errorf("OAuthクライアント設定の読み込みに失敗しました: %w", err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("認可コード受け取り用サーバーの起動に失敗しました: %w", err)
	}
	defer listener.Close()
	conf.RedirectURL = fmt.Sprintf("http://%s/", listener.Addr().String())

	state := oauth2.GenerateVerifier()
	verifier := oauth2.GenerateVerifier()
	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))
	fmt.Fprintf(out, "ブラウザで次のURLを開いて認可してください:\n%s\n", authURL)

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)
	server := &http.Server{Handler: authCallbackHandler(state, codeCh, errCh)}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	defer server.Close()

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return fmt.Errorf("認可コードの受け取りに失敗しました: %w", err)
	case <-ctx.Done():
		return ctx.Err()
	}

	token, err := conf.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return fmt.Errorf("トークンの取得に失敗しました: %w", err)
	}
	if err := saveToken(tokenFile, token); err != nil {
		return err
	}
	fmt.Fprintf(out, "トークンを保存しました: %s\n", tokenFile)
	return nil
}

func authCallbackHandler(state string, codeCh chan<- string, errCh chan<- error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		if msg := query.Get("error"); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			select {
			case errCh <- fmt.Errorf("認可が拒否されました: %s", msg):
			default:
			}
			return
		}
		code := query.Get("code")
		if code == "" {
			http.Error(w, "code is missing", http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, "認可が完了しました。このウィンドウを閉じてください。")
		select {
		case codeCh <- code:
		default:
		}
	})
}

// loadToken 保存済みトークンを読み込む
func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("トークンファイル %s の読み込みに失敗しました: %w", path, err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("トークンファイル %s の解析に失敗しました: %w", path, err)
	}
	return &token, nil
}

// saveToken トークンを所有者のみ読み書きできる権限で保存
func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("トークン保存先の作成に失敗しました: %w", err)
	}
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("トークンのJSON変換に失敗しました: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("トークンファイル %s の保存に失敗しました: %w", path, err)
	}
	return nil
}
