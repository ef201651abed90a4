package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NextSequenceID возвращает идентификатор вида PREFIX-YYYYMMDD-NNNN.
// Номер берётся как максимум среди существующих плюс один, поэтому вызывать
// его нужно под блокировкой коллекции, которой принадлежат идентификаторы.
func NextSequenceID(prefix string, existing []string, now time.Time) string {
	last := 0
	for _, id := range existing {
		if seq, ok := parseSequence(prefix, id); ok && seq > last {
			last = seq
		}
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, now.Format("20060102"), last+1)
}

func parseSequence(prefix, id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, prefix+"-")
	if !ok {
		return 0, false
	}
	i := strings.LastIndexByte(rest, '-')
	if i < 0 {
		return 0, false
	}
	seq, err := strconv.Atoi(rest[i+1:])
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}
