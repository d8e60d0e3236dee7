// Package protocol はTCPプロトコルのコマンド行を分類する
// 在庫には一切触れず、行の字句解析とパラメータ抽出のみを行う
package protocol

import (
	"errors"
	"strconv"
	"strings"
)

// ErrMalformedCommand はキーワードに一致したが文法が不正な行を表す
var ErrMalformedCommand = errors.New("コマンドの書式が不正です")

// Kind はコマンドの種別を表す
type Kind string

const (
	KindGetStructure Kind = "get_structure"
	KindReserve      Kind = "reserve"
	KindPurchase     Kind = "purchase"
	KindRelease      Kind = "release"
	KindCheck        Kind = "check"
	// KindChat はどのコマンドにも一致しなかった行（そのままブロードキャストする）
	KindChat Kind = "chat"
)

// Command は分類済みのコマンドと抽出済みパラメータを表す
type Command struct {
	Kind     Kind
	Category string
	Zone     string
	Row      int
	Seat     int
	// Raw は末尾の改行を除いた元の行
	Raw string
}

// 座席コマンドのキーワード（判定順は固定）
var seatKeywords = []struct {
	keyword string
	kind    Kind
}{
	{"RESERVAR_ASIENTO", KindReserve},
	{"COMPRAR_ASIENTO", KindPurchase},
	{"LIBERAR_ASIENTO", KindRelease},
	{"CHECK_ASIENTO", KindCheck},
}

// Parse は1行を型付きコマンドに分類する
// キーワードで始まるが文法を満たさない行はErrMalformedCommandを返す
// どのキーワードにも一致しない行はチャットとして分類する
func Parse(line string) (Command, error) {
	trimmed := strings.TrimSpace(line)

	if trimmed == "GET_STADIUM_STRUCTURE" {
		return Command{Kind: KindGetStructure, Raw: trimmed}, nil
	}

	for _, kw := range seatKeywords {
		if strings.HasPrefix(trimmed, kw.keyword) {
			cmd, ok := parseSeatArgs(trimmed[len(kw.keyword):])
			if !ok {
				return Command{Kind: kw.kind, Raw: trimmed}, ErrMalformedCommand
			}
			cmd.Kind = kw.kind
			cmd.Raw = trimmed
			return cmd, nil
		}
	}

	return Command{Kind: KindChat, Raw: trimmed}, nil
}

// parseSeatArgs は `"<categoria>" "<zona>" <fila> <asiento>` を解析する
// 引用符内のエスケープは扱わない
func parseSeatArgs(rest string) (Command, bool) {
	sc := &scanner{input: rest}

	if !sc.skipSpaces() {
		return Command{}, false
	}
	category, ok := sc.quoted()
	if !ok {
		return Command{}, false
	}
	if !sc.skipSpaces() {
		return Command{}, false
	}
	zone, ok := sc.quoted()
	if !ok {
		return Command{}, false
	}
	if !sc.skipSpaces() {
		return Command{}, false
	}
	row, ok := sc.unsigned()
	if !ok {
		return Command{}, false
	}
	if !sc.skipSpaces() {
		return Command{}, false
	}
	seatNum, ok := sc.unsigned()
	if !ok {
		return Command{}, false
	}
	sc.skipSpaces()
	if !sc.done() {
		return Command{}, false
	}

	return Command{Category: category, Zone: zone, Row: row, Seat: seatNum}, true
}

// scanner は単純な前方走査の字句解析器
type scanner struct {
	input string
	pos   int
}

// skipSpaces は1つ以上の空白を読み飛ばす
func (sc *scanner) skipSpaces() bool {
	start := sc.pos
	for sc.pos < len(sc.input) && (sc.input[sc.pos] == ' ' || sc.input[sc.pos] == '\t') {
		sc.pos++
	}
	return sc.pos > start
}

// quoted は `"..."` を読み取る（中身は1文字以上、引用符を含まない）
func (sc *scanner) quoted() (string, bool) {
	if sc.pos >= len(sc.input) || sc.input[sc.pos] != '"' {
		return "", false
	}
	sc.pos++
	start := sc.pos
	for sc.pos < len(sc.input) && sc.input[sc.pos] != '"' {
		sc.pos++
	}
	if sc.pos >= len(sc.input) || sc.pos == start {
		return "", false
	}
	value := sc.input[start:sc.pos]
	sc.pos++
	return value, true
}

// unsigned は符号なし10進整数を読み取る
func (sc *scanner) unsigned() (int, bool) {
	start := sc.pos
	for sc.pos < len(sc.input) && sc.input[sc.pos] >= '0' && sc.input[sc.pos] <= '9' {
		sc.pos++
	}
	if sc.pos == start {
		return 0, false
	}
	n, err := strconv.Atoi(sc.input[start:sc.pos])
	if err != nil {
		return 0, false
	}
	return n, true
}

// done は入力を全て消費したかを返す
func (sc *scanner) done() bool {
	return sc.pos == len(sc.input)
}
