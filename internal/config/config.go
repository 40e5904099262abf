// Package config provides configuration loading and validation for the bot.
// Values come from defaults, an optional config.yaml, and BOT_* environment
// variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Health    HealthConfig    `mapstructure:"health"`
	Broadcast BroadcastConfig `mapstructure:"broadcast"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  Messages        `mapstructure:"messages"`
}

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the transport credential, the administrator identity,
// and the archive channel used to obtain durable file references.
type TelegramConfig struct {
	Token            string `mapstructure:"token"              validate:"required"`
	AdminID          int64  `mapstructure:"admin_id"           validate:"required,gt=0"`
	ArchiveChannelID string `mapstructure:"archive_channel_id" validate:"required"`

	// BotUsername is resolved at startup via GetMe, not read from config.
	BotUsername string `mapstructure:"-"`
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// HealthConfig holds the liveness HTTP server settings.
type HealthConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

// BroadcastConfig controls the mass-send fan-out.
type BroadcastConfig struct {
	Stagger time.Duration `mapstructure:"stagger" validate:"min=1ms"`
	Workers int           `mapstructure:"workers" validate:"min=1"`
}

// SchedulerConfig holds per-task scheduling settings keyed by task name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a scheduled task and sets its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// Messages holds every user-visible text. Defaults are the bot's original
// Uzbek strings; all of them can be overridden from config.
type Messages struct {
	UserWelcome    string `mapstructure:"user_welcome"`
	AdminWelcome   string `mapstructure:"admin_welcome"`
	Cancelled      string `mapstructure:"cancelled"`
	AskVideo       string `mapstructure:"ask_video"`
	NotVideo       string `mapstructure:"not_video"`
	VideoAccepted  string `mapstructure:"video_accepted"`
	CodeTaken      string `mapstructure:"code_taken"`
	Uploading      string `mapstructure:"uploading"`
	UploadDone     string `mapstructure:"upload_done"`
	UploadFailed   string `mapstructure:"upload_failed"`
	SaveError      string `mapstructure:"save_error"`
	AskBroadcast   string `mapstructure:"ask_broadcast"`
	BroadcastBegin string `mapstructure:"broadcast_begin"`
	BroadcastGoing string `mapstructure:"broadcast_going"`
	Stats          string `mapstructure:"stats"`
	ChannelsHeader string `mapstructure:"channels_header"`
	AskChannelID   string `mapstructure:"ask_channel_id"`
	AskChannelLink string `mapstructure:"ask_channel_link"`
	AskChannelName string `mapstructure:"ask_channel_name"`
	ChannelAdded   string `mapstructure:"channel_added"`
	ChannelDeleted string `mapstructure:"channel_deleted"`
	ChooseDelete   string `mapstructure:"choose_delete"`
	SubRequired    string `mapstructure:"sub_required"`
	SubConfirmed   string `mapstructure:"sub_confirmed"`
	SubNotYet      string `mapstructure:"sub_not_yet"`
	MovieCaption   string `mapstructure:"movie_caption"`
	ArchiveCaption string `mapstructure:"archive_caption"`
	DeliveryError  string `mapstructure:"delivery_error"`
	CodeNotFound   string `mapstructure:"code_not_found"`
	BioTemplate    string `mapstructure:"bio_template"`
}

// LoadConfig reads configuration from the given YAML file (a missing file is
// allowed, defaults apply), overlays BOT_* environment variables, and
// validates the result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", true)

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.admin_id", 0)
	v.SetDefault("telegram.archive_channel_id", "")

	v.SetDefault("database.path", "storage.db")

	v.SetDefault("health.addr", ":8080")

	v.SetDefault("broadcast.stagger", 50*time.Millisecond)
	v.SetDefault("broadcast.workers", 10)

	v.SetDefault("scheduler.tasks.profile_summary.enabled", true)
	v.SetDefault("scheduler.tasks.profile_summary.schedule", "0 * * * *")

	v.SetDefault("messages.user_welcome", "👋 Assalomu alaykum, <b>%s</b>!\n\n🎬 Kino kodini yuboring:")
	v.SetDefault("messages.admin_welcome", "👋 Admin panelga xush kelibsiz!")
	v.SetDefault("messages.cancelled", "❌ Jarayon bekor qilindi.")
	v.SetDefault("messages.ask_video", "📥 Kinoni (video fayl) yuboring:")
	v.SetDefault("messages.not_video", "⚠️ Iltimos, video fayl yuboring yoki 'Bekor qilish' ni bosing.")
	v.SetDefault("messages.video_accepted", "✅ Video qabul qilindi.\n\nEndi ushbu kinoga <b>kod</b> yozing (faqat raqam yoki so'z):")
	v.SetDefault("messages.code_taken", "❌ Bu kod band! Boshqa kod yozing:")
	v.SetDefault("messages.uploading", "⏳ Kino maxfiy kanalga yuklanmoqda...")
	v.SetDefault("messages.upload_done", "✅ <b>Muvaffaqiyatli!</b>\n\nKino bazaga qo'shildi.\nKod: <code>%s</code>")
	v.SetDefault("messages.upload_failed", "❌ Xatolik: Bot maxfiy kanalda (%s) Admin emas yoki ID xato kiritilgan.")
	v.SetDefault("messages.save_error", "❌ Saqlashda xatolik yuz berdi. Qayta urinib ko'ring.")
	v.SetDefault("messages.ask_broadcast", "📢 Tarqatiladigan xabarni yuboring (Matn, Rasm, Video...):")
	v.SetDefault("messages.broadcast_begin", "🚀 Xabar %d kishiga yuborilmoqda... Jarayon biroz vaqt olishi mumkin.")
	v.SetDefault("messages.broadcast_going", "✅ Reklama tarqatish boshlandi.")
	v.SetDefault("messages.stats", "📊 <b>Statistika:</b>\n\n👥 Foydalanuvchilar: %d\n🎬 Kinolar: %d")
	v.SetDefault("messages.channels_header", "<b>Ulangan Kanallar:</b>\n\n")
	v.SetDefault("messages.ask_channel_id", "📢 Yangi kanalning ID raqamini yuboring (Bot shu kanalda admin bo'lishi shart!)\nMasalan: -1001234567890")
	v.SetDefault("messages.ask_channel_link", "Kanal ssilkasini yuboring (https://t.me/...):")
	v.SetDefault("messages.ask_channel_name", "Kanal nomini yozing (Tugmada ko'rinadigan nom):")
	v.SetDefault("messages.channel_added", "✅ Kanal muvaffaqiyatli qo'shildi!")
	v.SetDefault("messages.channel_deleted", "✅ Kanal o'chirildi.")
	v.SetDefault("messages.choose_delete", "O'chirmoqchi bo'lgan kanalni tanlang:")
	v.SetDefault("messages.sub_required", "⚠️ Botdan to'liq foydalanish uchun quyidagi kanallarga obuna bo'ling va <b>'Tasdiqlash'</b> tugmasini bosing:")
	v.SetDefault("messages.sub_confirmed", "✅ Obuna tasdiqlandi! Marhamat, kino kodini yuboring.")
	v.SetDefault("messages.sub_not_yet", "❌ Hali kanallarga a'zo bo'lmadingiz!")
	v.SetDefault("messages.movie_caption", "🎬 <b>%s</b>\n\n👁 Ko'rishlar: %d\n🤖 Bot: @%s")
	v.SetDefault("messages.archive_caption", "💿 Kod: %s\n📄 Nom: %s\n👁 Bot: @%s")
	v.SetDefault("messages.delivery_error", "❌ Kino yuklashda xatolik. Kino o'chib ketgan bo'lishi mumkin.")
	v.SetDefault("messages.code_not_found", "❌ Bunday kod mavjud emas. Kodni to'g'ri yozing.")
	v.SetDefault("messages.bio_template", "🎬 Eng so'nggi premyeralar bizda!\n\n👥 Foydalanuvchilar: %d ta\n💿 Kinolar: %d ta\n\n✅ Rasmiy bot")
}
