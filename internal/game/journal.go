package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchelldurbincs/MafiaSimulator/internal/game/core"
)

// utf8BOM prefixes every round and summary file so Windows editors pick the
// encoding up.
const utf8BOM = "\xEF\xBB\xBF"

// roundBeginDayLocked opens the next round's journal: bumps the index and
// writes the alive-roster header. Caller holds m.mu.
func (m *Moderator) roundBeginDayLocked() {
	m.roundIndex++
	m.roundWritten = false
	m.roundLog.Reset()

	fmt.Fprintf(&m.roundLog, "=== ROUND %d (Day) ===\n", m.roundIndex)
	m.roundLog.WriteString("Alive at start of day:\n")
	for i := range m.state.Players {
		p := &m.state.Players[i]
		if !p.Alive {
			continue
		}
		fmt.Fprintf(&m.roundLog, "  %s | role=%s | team=%s\n", m.tag(core.PlayerID(i)), p.Role, p.Team)
	}
}

// roundAppend adds a journal line (already newline-terminated). Caller
// holds m.mu.
func (m *Moderator) roundAppend(line string) {
	m.roundLog.WriteString(line)
}

// writeRoundFile flushes the round journal to logs_dir/round_<R>.txt,
// exactly once per round index. An unwritable file is logged and the round
// is marked written so the engine never retries.
func (m *Moderator) writeRoundFile(nightCompleted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeRoundFileLocked(nightCompleted)
}

func (m *Moderator) writeRoundFileLocked(nightCompleted bool) {
	if m.roundWritten {
		return
	}
	m.roundWritten = true

	if err := os.MkdirAll(m.cfg.LogsDir, 0o755); err != nil {
		m.logger.Error().Err(err).Str("dir", m.cfg.LogsDir).Msg("Failed to create logs directory")
		return
	}

	suffix := " (no night)"
	if nightCompleted {
		suffix = " (night completed)"
	}
	content := utf8BOM + m.roundLog.String() +
		fmt.Sprintf("=== ROUND %d END%s ===\n", m.roundIndex, suffix)

	fname := filepath.Join(m.cfg.LogsDir, fmt.Sprintf("round_%d.txt", m.roundIndex))
	if err := os.WriteFile(fname, []byte(content), 0o644); err != nil {
		m.logger.Error().Err(err).Str("file", fname).Msg("Failed to write round file")
	}
}

// FinalizeRoundFileIfPending flushes a round that terminated during Day.
func (m *Moderator) FinalizeRoundFileIfPending() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.roundIndex > 0 && !m.roundWritten {
		m.writeRoundFileLocked(false)
	}
}

// WriteSummaryFile emits the winner and the fixed-width per-player
// statistics table to logs_dir/summary.txt, overwriting any previous one.
func (m *Moderator) WriteSummaryFile() {
	if err := os.MkdirAll(m.cfg.LogsDir, 0o755); err != nil {
		m.logger.Error().Err(err).Str("dir", m.cfg.LogsDir).Msg("Failed to create logs directory")
		return
	}

	var sb strings.Builder
	sb.WriteString(utf8BOM)
	sb.WriteString("=== SUMMARY ===\n")
	fmt.Fprintf(&sb, "Winner: %s\n", m.EvaluateWinner())

	sb.WriteString("\n#  Name            Role             Team      Status     Died@Round  " +
		"VotesGiven  VotesRecv  MafiaVotes  DetShots  DocHeals  ManiacTargets\n")
	sb.WriteString("-------------------------------------------------------------------------------------------------------------\n")

	m.mu.Lock()
	for i := range m.state.Players {
		p := &m.state.Players[i]
		status := "DEAD"
		if p.Alive {
			status = "ALIVE"
		}
		died := "-"
		if m.statsDiedRound[i] > 0 {
			died = strconv.Itoa(m.statsDiedRound[i])
		}
		fmt.Fprintf(&sb, "%2d %s %s %s %s %10s %10d %10d %11d %8d %9d %14d\n",
			i+1,
			pad(p.Name, 15),
			pad(p.Role.String(), 16),
			pad(p.Team.String(), 9),
			pad(status, 9),
			died,
			m.statsVotesGiven[i],
			m.statsVotesRecv[i],
			m.statsMafiaVotes[i],
			m.statsDetShots[i],
			m.statsDocHeals[i],
			m.statsManiacTargets[i],
		)
	}
	m.mu.Unlock()

	fname := filepath.Join(m.cfg.LogsDir, "summary.txt")
	if err := os.WriteFile(fname, []byte(sb.String()), 0o644); err != nil {
		m.logger.Error().Err(err).Str("file", fname).Msg("Failed to write summary file")
	}
}

// pad left-aligns s into a w-wide column, truncating when too long.
func pad(s string, w int) string {
	if len(s) >= w {
		return s[:w]
	}
	return s + strings.Repeat(" ", w-len(s))
}
