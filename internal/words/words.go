package words

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"impostor-party-be/internal/service/game"

	"go.uber.org/zap"
)

//go:embed default_pairs.json
var defaultPairs []byte

var ErrEmptyBank = errors.New("word bank has no usable pairs")

// Bank 是启动时加载的只读词库，可以被多个房间并发读取
type Bank struct {
	pairs []game.WordPair
}

// Load 从 JSON 文件加载词库，文件格式为二元字符串数组的数组：
//
//	[["Coffee", "Tea"], ["Cat", "Dog"]]
//
// path 为空时使用内置词库
func Load(path string) (*Bank, error) {
	if path == "" {
		zap.L().Info("未配置词库文件，使用内置词库")
		return Parse(defaultPairs)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取词库文件失败: %w", err)
	}

	bank, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("解析词库文件 %s 失败: %w", path, err)
	}

	zap.L().Info("词库加载完成", zap.String("path", path), zap.Int("pairs", bank.Len()))

	return bank, nil
}

func Default() *Bank {
	bank, err := Parse(defaultPairs)
	if err != nil {
		panic("内置词库无效: " + err.Error())
	}

	return bank
}

func Parse(data []byte) (*Bank, error) {
	var raw [][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	pairs := make([]game.WordPair, 0, len(raw))
	for i, entry := range raw {
		if len(entry) != 2 {
			zap.L().Warn("跳过无效词对：必须恰好包含两个词", zap.Int("index", i))
			continue
		}

		pairs = append(pairs, game.WordPair{Common: entry[0], Impostor: entry[1]})
	}

	return New(pairs)
}

// New 过滤掉空词和两词相同的词对
func New(pairs []game.WordPair) (*Bank, error) {
	valid := make([]game.WordPair, 0, len(pairs))

	for i, p := range pairs {
		common := strings.TrimSpace(p.Common)
		impostor := strings.TrimSpace(p.Impostor)

		if common == "" || impostor == "" || common == impostor {
			zap.L().Warn(
				"跳过无效词对",
				zap.Int("index", i),
				zap.String("common", p.Common),
				zap.String("impostor", p.Impostor),
			)
			continue
		}

		valid = append(valid, game.WordPair{Common: common, Impostor: impostor})
	}

	if len(valid) == 0 {
		return nil, ErrEmptyBank
	}

	return &Bank{pairs: valid}, nil
}

func (b *Bank) Len() int {
	return len(b.pairs)
}

// Draw 均匀随机地抽取一对词
func (b *Bank) Draw(rng game.Random) game.WordPair {
	return b.pairs[rng.IntN(len(b.pairs))]
}
