package coach

import (
	"fmt"
	"strings"

	"github.com/tahcohcat/coach-pro/internal/models"
	"github.com/tahcohcat/coach-pro/internal/scheduler"
)

// MotivationalQuotes is the fixed rotation served by /motivazione.
var MotivationalQuotes = []string{
	"💪 Sei più forte di quanto pensi! Ogni sfida è un'opportunità!",
	"🌟 Il successo è la somma di piccoli sforzi ripetuti ogni giorno!",
	"🔥 La disciplina batte il talento quando il talento non si allena!",
	"🎯 Non contare i giorni. Fai che i giorni contino!",
	"⚡ Il momento migliore per iniziare era ieri. Il secondo migliore è ORA!",
	"🚀 Credi in te stesso e sarai inarrestabile!",
	"💎 I diamanti si formano sotto pressione. Tu sei un diamante in formazione!",
	"🏆 Il dolore è temporaneo. Il successo è permanente!",
	"✨ Ogni esperto è stato una volta un principiante che non si è arreso!",
	"👑 Sei il creatore del tuo destino. Agisci come tale!",
}

// ProgressBar renders a ten-segment bar for a progress percentage.
func ProgressBar(progress int) string {
	progress = models.ClampProgress(progress)
	filled := progress / 10
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

func composeWelcome(firstName string) string {
	return fmt.Sprintf("🎉 *Benvenuto nel Coach Motivazionale PRO!* 💪\n\n"+
		"Ciao %s! Sono qui per trasformare i tuoi sogni in realtà!\n\n"+
		"✨ Con me avrai:\n"+
		"• 🎯 Sistema di obiettivi intelligente\n"+
		"• 🏆 Gamification con punti e badge\n"+
		"• 📊 Grafici dei tuoi progressi\n"+
		"• 🤖 AI Coach personale\n"+
		"• 🔥 Sistema di streak per restare motivato\n\n"+
		"Pronto a iniziare questo viaggio insieme? 🚀", firstName)
}

func composeWelcomeBack(user *models.User, stats *models.UserStats) string {
	return fmt.Sprintf("👋 Bentornato, %s!\n\n"+
		"📊 *Il tuo stato:*\n"+
		"%s\n"+
		"🔥 Streak: %d giorni\n"+
		"⭐ Punti: %d\n"+
		"🎯 Obiettivi attivi: %d\n\n"+
		"Usa /aiuto per vedere tutti i comandi! 💪",
		user.DisplayName(), models.LevelInfo(user.Level).Name, user.StreakDays, user.TotalPoints, stats.ActiveGoals)
}

func composeCategoryPrompt() string {
	return "💡 *In quale area vuoi migliorare?*\n\nSeleziona la categoria del tuo primo obiettivo:"
}

func composeCategoryChosen(category string) string {
	return fmt.Sprintf("Perfetto! Hai scelto: *%s* 🎯\n\n"+
		"Ora scrivi il tuo obiettivo specifico.\n\n"+
		"*Esempi:*\n"+
		"• \"Perdere 5kg in 2 mesi\"\n"+
		"• \"Correre 5km senza fermarmi\"\n"+
		"• \"Risparmiare 1000€ in 3 mesi\"\n\n"+
		"Il tuo obiettivo 👇", category)
}

func composeNewGoalPrompt() string {
	return "✨ *Nuovo obiettivo!*\n\n" +
		"Descrivi il tuo obiettivo in modo specifico.\n\n" +
		"*Suggerimenti per un buon obiettivo:*\n" +
		"• Specifico: \"Correre 5km\" non \"Fare sport\"\n" +
		"• Misurabile: Includi numeri\n" +
		"• Realizzabile: Sfidante ma possibile\n\n" +
		"Scrivi il tuo obiettivo 👇"
}

func composeGoalCreated(title string) string {
	return fmt.Sprintf("✅ *Perfetto! Obiettivo aggiunto:*\n\n"+
		"\"%s\"\n\n"+
		"🎯 Ora inizia a lavorarci!\n"+
		"Usa /progresso per aggiornare i tuoi progressi! 💪", title)
}

func composeGoalList(goals []models.Goal) string {
	if len(goals) == 0 {
		return "📋 *Nessun obiettivo ancora!*\n\nUsa /nuovo per creare il tuo primo obiettivo! 🎯"
	}

	var b strings.Builder
	b.WriteString("📋 *I TUOI OBIETTIVI*\n\n")

	var active, completed []models.Goal
	for _, g := range goals {
		if g.Completed {
			completed = append(completed, g)
		} else {
			active = append(active, g)
		}
	}

	if len(active) > 0 {
		b.WriteString("🎯 *Attivi:*\n\n")
		for i, goal := range active {
			fmt.Fprintf(&b, "%d. *%s*\n", i+1, goal.Title)
			fmt.Fprintf(&b, "   %s %d%%\n", ProgressBar(goal.Progress), goal.Progress)
			if goal.Deadline != nil && *goal.Deadline != "" {
				fmt.Fprintf(&b, "   📅 %s\n", *goal.Deadline)
			}
			b.WriteString("\n")
		}
	}

	if len(completed) > 0 {
		fmt.Fprintf(&b, "\n✅ *Completati: %d*\n", len(completed))
	}

	return b.String()
}

func composeProgressPrompt(goals []models.Goal) string {
	if len(goals) == 0 {
		return "❌ Non hai obiettivi attivi!\n\nUsa /nuovo per crearne uno! 🎯"
	}

	var b strings.Builder
	b.WriteString("📊 *Aggiorna Progresso*\n\n")
	for i, goal := range goals {
		fmt.Fprintf(&b, "%d. %s (%d%%)\n", i+1, goal.Title, goal.Progress)
	}
	b.WriteString("\n💡 Scrivi: *numero +valore*\n")
	b.WriteString("Esempio: `1 +10` o `2 +25`")
	return b.String()
}

func composeProgressUpdated(goal models.Goal, delta int, completed bool) string {
	var b strings.Builder
	b.WriteString("✅ *Aggiornato!*\n\n")
	fmt.Fprintf(&b, "%s\n", goal.Title)
	fmt.Fprintf(&b, "%s %d%%\n\n", ProgressBar(goal.Progress), goal.Progress)

	if completed {
		b.WriteString("🎉🎉🎉 *OBIETTIVO COMPLETATO!* 🎉🎉🎉\n\n")
		b.WriteString("Sono ORGOGLIOSO di te! 💪🌟\n")
		b.WriteString("Hai dimostrato vera determinazione!\n")
	} else if delta > 0 {
		b.WriteString("💪 Grande! Stai facendo progressi reali!\nContinua così! 🔥")
	}

	return b.String()
}

func composeGoalNotFound() string {
	return "🤔 Non ho trovato quell'obiettivo.\n\nUsa /progresso per vedere la lista aggiornata!"
}

func composeReminderSet(hour, minute int) string {
	return fmt.Sprintf("✅ Promemoria impostato alle %d:%02d!\n\n"+
		"Ti ricorderò ogni giorno di lavorare sui tuoi obiettivi! ⏰", hour, minute)
}

func composeReminderPrompt(current string, enabled bool) string {
	state := "attivo"
	if !enabled {
		state = "disattivato"
	}
	return fmt.Sprintf("⏰ *Imposta il tuo promemoria giornaliero*\n\n"+
		"Attualmente: %s (%s)\n\n"+
		"Scrivi l'orario desiderato (formato 24h):\n"+
		"Esempio: `08:30` o `14:00`", current, state)
}

func composeReminderToggled(enabled bool) string {
	if enabled {
		return "🔔 Promemoria attivati! Ti terrò sulla buona strada! 💪"
	}
	return "🔕 Promemoria disattivati. Puoi riattivarli con /promemoria quando vuoi!"
}

func composeStats(user *models.User, stats *models.UserStats, badges []models.Badge) string {
	levelInfo := models.LevelInfo(user.Level)
	next := models.NextLevelInfo(user.Level)

	var b strings.Builder
	b.WriteString("📊 *LE TUE STATISTICHE*\n\n")
	b.WriteString("👤 *Profilo*\n")
	fmt.Fprintf(&b, "%s\n", levelInfo.Name)
	fmt.Fprintf(&b, "⭐ %d punti", user.TotalPoints)
	if next != nil {
		fmt.Fprintf(&b, " (%d al prossimo livello)", next.MinPoints-user.TotalPoints)
	}
	fmt.Fprintf(&b, "\n🔥 Streak: %d giorni\n\n", user.StreakDays)

	b.WriteString("🎯 *Obiettivi*\n")
	fmt.Fprintf(&b, "Attivi: %d\n", stats.ActiveGoals)
	fmt.Fprintf(&b, "Completati: %d\n", stats.CompletedGoals)
	fmt.Fprintf(&b, "Progresso medio: %d%%\n\n", stats.AvgProgress)

	fmt.Fprintf(&b, "🏆 *Badge (%d)*\n", len(badges))
	if len(badges) > 0 {
		shown := badges
		if len(shown) > 5 {
			shown = shown[:5]
		}
		for _, badge := range shown {
			info := badge.Type.Info()
			fmt.Fprintf(&b, "%s %s\n", info.Emoji, info.Name)
		}
		if len(badges) > 5 {
			fmt.Fprintf(&b, "...e altri %d\n", len(badges)-5)
		}
	} else {
		b.WriteString("Nessun badge ancora. Inizia a completare obiettivi! 💪\n")
	}

	return b.String()
}

func composeBadgeList(badges []models.Badge) string {
	if len(badges) == 0 {
		return "🏆 *BADGE*\n\n" +
			"Non hai ancora badge!\n\n" +
			"Completa obiettivi e mantieni lo streak per sbloccare badge! 💪"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🏆 *I TUOI BADGE (%d)*\n\n", len(badges))
	for _, badge := range badges {
		info := badge.Type.Info()
		fmt.Fprintf(&b, "%s *%s*\n", info.Emoji, info.Name)
		fmt.Fprintf(&b, "   %s\n", info.Description)
		fmt.Fprintf(&b, "   Ottenuto: %s\n\n", badge.EarnedAt.Format("02/01/2006"))
	}
	return b.String()
}

func composeBadgeEarned(badge models.BadgeType) string {
	info := badge.Info()
	return fmt.Sprintf("🎉 *NUOVO BADGE SBLOCCATO!*\n\n"+
		"%s *%s*\n"+
		"%s\n\n"+
		"Continua così! 💪", info.Emoji, info.Name, info.Description)
}

func composeLevelUp(level int) string {
	return fmt.Sprintf("🎉🎉🎉 *LEVEL UP!* 🎉🎉🎉\n\n"+
		"Sei salito al livello %d!\n"+
		"%s\n\n"+
		"Continua a migliorare! 🚀", level, models.LevelInfo(level).Name)
}

func composePointsAwarded(points int, reason string) string {
	return fmt.Sprintf("⭐ +%d punti! %s", points, reason)
}

func composeHelp() string {
	return `🤖 *COMANDI DISPONIBILI*

📋 *Gestione Obiettivi:*
/nuovo - Crea un nuovo obiettivo
/obiettivi - Vedi tutti gli obiettivi
/progresso - Aggiorna i progressi

📊 *Statistiche:*
/stats - Le tue statistiche complete
/grafici - Grafici dei progressi
/badge - Vedi tutti i tuoi badge

⚙️ *Impostazioni:*
/promemoria - Imposta orario promemoria

💬 *Altro:*
/motivazione - Dose di motivazione
/aiuto - Mostra questo messaggio

💬 *Chat Libera:*
Scrivi liberamente per parlare con il tuo AI Coach!

Sono qui per te 24/7! 🌟`
}

func composeChartCaption() string {
	return "📊 *I Tuoi Progressi*\n\nContinua così! 💪"
}

func composeChartFailed() string {
	return "❌ Errore nella generazione dei grafici. Riprova!"
}

func composeNoChartData() string {
	return "❌ Aggiungi alcuni obiettivi prima di vedere i grafici!"
}

func composeOutreach(o scheduler.Outreach) string {
	switch o.Kind {
	case scheduler.OutreachReminder:
		return fmt.Sprintf("⏰ *Promemoria giornaliero!*\n\n"+
			"Buongiorno! 🌅\n\n"+
			"Hai %d obiettivi attivi.\n"+
			"🔥 Streak attuale: %d giorni\n\n"+
			"Cosa farai oggi per avvicinarti ai tuoi traguardi?\n\n"+
			"Ricorda: piccoli passi ogni giorno! 💪", o.ActiveGoals, o.StreakDays)
	case scheduler.OutreachReengagement:
		return "👋 Ehi! Ti manco? 😊\n\n" +
			"Non ti vedo da qualche giorno!\n" +
			"I tuoi obiettivi ti aspettano! 🎯\n\n" +
			"Tutto ok? Come posso aiutarti? 💙"
	case scheduler.OutreachRecap:
		return fmt.Sprintf("🌟 *BUON LUNEDÌ!* 🌟\n\n"+
			"Nuova settimana = Nuove opportunità! 💪\n\n"+
			"📊 Il tuo recap:\n"+
			"🎯 %d obiettivi attivi\n"+
			"🔥 Streak: %d giorni\n"+
			"%s\n\n"+
			"Cosa realizzerai questa settimana? 🚀\n\n"+
			"Io credo in te! 💙", o.ActiveGoals, o.StreakDays, o.LevelName)
	}
	return ""
}
