// Command emoai is a terminal client for the EmoAI backend. It mirrors what
// the web front end does: it logs in against the HTTP API, keeps the session
// in a local state file, and reads accessibility preferences from the same
// directory.
//
// Usage:
//
//	emoai register -email ana@uni.edu -password secreta [-name Ana] [-institution U]
//	emoai login -email ana@uni.edu -password secreta
//	emoai verify-2fa -email ana@uni.edu -code 123456
//	emoai forgot -email ana@uni.edu
//	emoai reset -email ana@uni.edu -code 123456 -new-password renovada
//	emoai checkin -mood bien [-note "día tranquilo"]
//	emoai checkins
//	emoai chat -text "me siento ansiosa"
//	emoai me
//	emoai logout
//	emoai a11y [-high-contrast] [-large-text] [-reduce-motion] [-focus-outline=false] [-tts]
//
// The server address comes from EMOAI_SERVER (default http://localhost:4000);
// state lives in the platform config dir, override with EMOAI_STATE_DIR.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/emoai/emoai-server/internal/client"
)

const defaultServer = "http://localhost:4000"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	app, err := newApp()
	if err != nil {
		fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd, args := os.Args[1], os.Args[2:]
	if err := app.run(ctx, cmd, args); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: emoai <command> [flags]

commands:
  register     create an account and log in
  login        log in (may ask for a 2FA code)
  verify-2fa   complete a 2FA login challenge
  forgot       request a password reset code
  reset        set a new password with a reset code
  checkin      record how you feel right now
  checkins     show your check-in history
  chat         talk to the support chatbot
  me           show your profile and stats
  logout       forget the local session
  a11y         show or change accessibility settings`)
}

// app bundles the API client and the local state stores.
type app struct {
	api      *client.Client
	sessions *client.SessionStore
	prefs    *client.AccessibilityStore
}

func newApp() (*app, error) {
	server := os.Getenv("EMOAI_SERVER")
	if server == "" {
		server = defaultServer
	}

	dir := os.Getenv("EMOAI_STATE_DIR")
	if dir == "" {
		var err error
		dir, err = client.DefaultStateDir()
		if err != nil {
			return nil, err
		}
	}

	sessions, err := client.NewSessionStore(dir)
	if err != nil {
		return nil, err
	}
	prefs, err := client.NewAccessibilityStore(dir)
	if err != nil {
		return nil, err
	}

	return &app{
		api:      client.New(server),
		sessions: sessions,
		prefs:    prefs,
	}, nil
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.register(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "verify-2fa":
		return a.verifyTwoFactor(ctx, args)
	case "forgot":
		return a.forgot(ctx, args)
	case "reset":
		return a.reset(ctx, args)
	case "checkin":
		return a.checkin(ctx, args)
	case "checkins":
		return a.checkins(ctx)
	case "chat":
		return a.chat(ctx, args)
	case "me":
		return a.me(ctx)
	case "logout":
		return a.logout()
	case "a11y":
		return a.a11y(args)
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// token returns the saved session token, or an error telling the user to log
// in. Expired sessions read back as absent, so stale logins get the same
// friendly message instead of a server 401.
func (a *app) token() (string, error) {
	sess, err := a.sessions.Load()
	if err != nil {
		return "", err
	}
	if sess == nil {
		return "", fmt.Errorf("not logged in — run 'emoai login' first")
	}
	return sess.Token, nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "display name (optional)")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	institution := fs.String("institution", "", "school or university (optional)")
	fs.Parse(args)

	auth, err := a.api.Register(ctx, *name, *email, *password, *institution)
	if err != nil {
		return err
	}
	if err := a.sessions.Save(auth.Token, auth.User); err != nil {
		return err
	}
	fmt.Printf("Bienvenido/a, %s. Sesión iniciada.\n", auth.User.Name)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	result, err := a.api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}

	if result.Requires2FA {
		fmt.Println(result.Message)
		if result.Code != "" {
			// Demo servers echo the code instead of sending email.
			fmt.Printf("(código de demostración: %s)\n", result.Code)
		}
		fmt.Printf("Completa el acceso con: emoai verify-2fa -email %s -code <código>\n", *email)
		return nil
	}

	if err := a.sessions.Save(result.Auth.Token, result.Auth.User); err != nil {
		return err
	}
	fmt.Printf("Hola de nuevo, %s. Sesión iniciada.\n", result.Auth.User.Name)
	return nil
}

func (a *app) verifyTwoFactor(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("verify-2fa", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	code := fs.String("code", "", "6-digit verification code")
	fs.Parse(args)

	auth, err := a.api.VerifyTwoFactor(ctx, *email, *code)
	if err != nil {
		return err
	}
	if err := a.sessions.Save(auth.Token, auth.User); err != nil {
		return err
	}
	fmt.Printf("Verificación completada. Hola, %s.\n", auth.User.Name)
	return nil
}

func (a *app) forgot(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("forgot", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	fs.Parse(args)

	result, err := a.api.RequestPasswordReset(ctx, *email)
	if err != nil {
		return err
	}
	fmt.Println(result.Message)
	if result.Code != "" {
		fmt.Printf("(código de demostración: %s)\n", result.Code)
	}
	return nil
}

func (a *app) reset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	code := fs.String("code", "", "6-digit reset code")
	newPassword := fs.String("new-password", "", "new password")
	fs.Parse(args)

	if err := a.api.ResetPassword(ctx, *email, *code, *newPassword); err != nil {
		return err
	}
	fmt.Println("Contraseña actualizada. Inicia sesión con: emoai login")
	return nil
}

func (a *app) checkin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkin", flag.ExitOnError)
	mood := fs.String("mood", "", "one of: muy_bien, bien, neutral, triste, ansioso")
	note := fs.String("note", "", "optional note")
	fs.Parse(args)

	token, err := a.token()
	if err != nil {
		return err
	}

	checkin, err := a.api.CreateCheckin(ctx, token, *mood, *note)
	if err != nil {
		return err
	}
	fmt.Printf("Check-in registrado: %s (%s)\n", checkin.Mood, checkin.CreatedAt.Format("2006-01-02 15:04"))
	return nil
}

func (a *app) checkins(ctx context.Context) error {
	token, err := a.token()
	if err != nil {
		return err
	}

	list, err := a.api.ListCheckins(ctx, token)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("Aún no tienes check-ins.")
		return nil
	}
	for _, c := range list {
		line := fmt.Sprintf("%s  %-9s", c.CreatedAt.Format("2006-01-02 15:04"), c.Mood)
		if c.Note != "" {
			line += "  " + c.Note
		}
		fmt.Println(line)
	}
	return nil
}

func (a *app) chat(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	text := fs.String("text", "", "what you want to say")
	fs.Parse(args)

	token, err := a.token()
	if err != nil {
		return err
	}

	reply, err := a.api.Chat(ctx, token, *text)
	if err != nil {
		return err
	}
	fmt.Println(reply)
	return nil
}

func (a *app) me(ctx context.Context) error {
	token, err := a.token()
	if err != nil {
		return err
	}

	profile, err := a.api.Me(ctx, token)
	if err != nil {
		return err
	}

	fmt.Printf("%s <%s>\n", profile.User.Name, profile.User.Email)
	if profile.User.Institution != "" {
		fmt.Println(profile.User.Institution)
	}
	fmt.Printf("Check-ins: %d   Racha: %d días   Sesiones de chat (7d): %d   Ánimo: %s\n",
		profile.Stats.TotalCheckins,
		profile.Stats.Streak,
		profile.Stats.ChatbotSessions,
		profile.Stats.AverageMood,
	)
	return nil
}

func (a *app) logout() error {
	// Logout is purely local: the server holds no session state, the token
	// just stops being presented and expires on its own.
	if err := a.sessions.Clear(); err != nil {
		return err
	}
	fmt.Println("Sesión cerrada.")
	return nil
}

func (a *app) a11y(args []string) error {
	current := a.prefs.Load()

	fs := flag.NewFlagSet("a11y", flag.ExitOnError)
	highContrast := fs.Bool("high-contrast", current.HighContrast, "high contrast mode")
	largeText := fs.Bool("large-text", current.LargeText, "larger text")
	reduceMotion := fs.Bool("reduce-motion", current.ReduceMotion, "reduce animations")
	focusOutline := fs.Bool("focus-outline", current.FocusOutline, "show focus outlines")
	tts := fs.Bool("tts", current.TTSEnabled, "text to speech")
	fs.Parse(args)

	updated := client.Accessibility{
		HighContrast: *highContrast,
		LargeText:    *largeText,
		ReduceMotion: *reduceMotion,
		FocusOutline: *focusOutline,
		TTSEnabled:   *tts,
	}

	if updated != current {
		if err := a.prefs.Save(updated); err != nil {
			return err
		}
	}

	fmt.Printf("highContrast=%t largeText=%t reduceMotion=%t focusOutline=%t ttsEnabled=%t\n",
		updated.HighContrast, updated.LargeText, updated.ReduceMotion, updated.FocusOutline, updated.TTSEnabled)
	return nil
}
