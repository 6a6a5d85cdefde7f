package game

import (
	"testing"
)

// 按脚本返回随机值，洗牌保持原顺序
type scriptedRandom struct {
	ints   []int
	floats []float64
}

func (s *scriptedRandom) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}

	v := s.ints[0]
	s.ints = s.ints[1:]

	return v % n
}

func (s *scriptedRandom) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}

	v := s.floats[0]
	s.floats = s.floats[1:]

	return v
}

func (s *scriptedRandom) Shuffle(n int, swap func(i, j int)) {}

// 反转顺序的洗牌，用来确认发言顺序确实来自 Random
type reversingRandom struct {
	scriptedRandom
}

func (r *reversingRandom) Shuffle(n int, swap func(i, j int)) {
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}

type fixedWords struct {
	pair WordPair
}

func (f fixedWords) Draw(Random) WordPair {
	return f.pair
}

var testPair = WordPair{Common: "apple", Impostor: "pear"}

func newTestRoom(t *testing.T, rng Random) *Room {
	t.Helper()

	return NewRoom("ABCD", fixedWords{pair: testPair}, rng)
}

func hostOf(r *Room) *Player {
	for _, p := range r.players {
		if p.IsHost {
			return p
		}
	}

	return nil
}

func joinPlayer(r *Room, id, name string) chan ResponseWrapper {
	ch := make(chan ResponseWrapper, 256)
	r.Join(Player{ID: id, Name: name, RespCh: ch})

	return ch
}

func drain(ch chan ResponseWrapper) []ResponseWrapper {
	var out []ResponseWrapper

	for {
		select {
		case resp := <-ch:
			out = append(out, resp)
		default:
			return out
		}
	}
}

func ofType(resps []ResponseWrapper, respType string) []ResponseWrapper {
	var out []ResponseWrapper

	for _, resp := range resps {
		if resp.RespType == respType {
			out = append(out, resp)
		}
	}

	return out
}
