package testutil

import (
	"fmt"

	"github.com/example/go-readmaker/internal/dictionary"
)

// Context ids of the sample dictionary. 0 is reserved for BOS/EOS.
const (
	idNoun uint16 = iota + 1
	idParticle
	idAdjective
	idAuxVerb
	idSymbol
	idVerb
	contextIDs
)

// SampleText segments to SampleWords with SampleDictionary.
const SampleText = "今日は良い天気です。"

// SampleWords is the expected segmentation of SampleText.
var SampleWords = []string{"今日", "は", "良い", "天気", "です", "。"}

// SampleDictionary returns a freshly built miniature IPADIC-style dictionary.
func SampleDictionary() *dictionary.Dictionary {
	d, err := dictionary.NewBuilder("sample", int(contextIDs), int(contextIDs)).
		Connect(idNoun, idParticle, -50).
		Connect(idParticle, idNoun, -20).
		Connect(idAdjective, idNoun, -30).
		Connect(idNoun, idAuxVerb, -40).
		Word("今日", idNoun, idNoun, 100, "名詞,副詞可能,*,*,*,*,今日,キョウ,キョー").
		Word("今", idNoun, idNoun, 500, "名詞,副詞可能,*,*,*,*,今,イマ,イマ").
		Word("日", idNoun, idNoun, 500, "名詞,一般,*,*,*,*,日,ヒ,ヒ").
		Word("は", idParticle, idParticle, 100, "助詞,係助詞,*,*,*,*,は,ハ,ワ").
		Word("良い", idAdjective, idAdjective, 100, "形容詞,自立,*,*,形容詞・アウオ段,基本形,良い,ヨイ,ヨイ").
		Word("良", idNoun, idNoun, 800, "名詞,一般,*,*,*,*,良,リョウ,リョー").
		Word("天気", idNoun, idNoun, 100, "名詞,一般,*,*,*,*,天気,テンキ,テンキ").
		Word("天", idNoun, idNoun, 600, "名詞,一般,*,*,*,*,天,テン,テン").
		Word("気", idNoun, idNoun, 600, "名詞,一般,*,*,*,*,気,キ,キ").
		Word("です", idAuxVerb, idAuxVerb, 100, "助動詞,*,*,*,特殊・デス,基本形,です,デス,デス").
		Word("で", idParticle, idParticle, 300, "助詞,格助詞,一般,*,*,*,で,デ,デ").
		Word("。", idSymbol, idSymbol, 0, "記号,句点,*,*,*,*,。,。,。").
		Word("、", idSymbol, idSymbol, 0, "記号,読点,*,*,*,*,、,、,、").
		Word("吾輩", idNoun, idNoun, 100, "名詞,代名詞,一般,*,*,*,吾輩,ワガハイ,ワガハイ").
		Word("猫", idNoun, idNoun, 100, "名詞,一般,*,*,*,*,猫,ネコ,ネコ").
		Word("ある", idVerb, idVerb, 200, "動詞,自立,*,*,五段・ラ行,基本形,ある,アル,アル").
		Word("学問", idNoun, idNoun, 100, "名詞,一般,*,*,*,*,学問,ガクモン,ガクモン").
		Word("の", idParticle, idParticle, 100, "助詞,連体化,*,*,*,*,の,ノ,ノ").
		Word("すすめ", idNoun, idNoun, 300, "名詞,一般,*,*,*,*,すすめ,ススメ,ススメ").
		Class(dictionary.CharClass{Name: dictionary.DefaultClass, Group: true}).
		Class(dictionary.CharClass{Name: "SPACE", Group: true}).
		Class(dictionary.CharClass{Name: "KANJI", Length: 2}).
		Class(dictionary.CharClass{Name: "HIRAGANA", Group: true, Length: 2}).
		Class(dictionary.CharClass{Name: "KATAKANA", Invoke: true, Group: true, Length: 2}).
		Class(dictionary.CharClass{Name: "ALPHA", Invoke: true, Group: true}).
		Class(dictionary.CharClass{Name: "NUMERIC", Invoke: true, Group: true}).
		Class(dictionary.CharClass{Name: "SYMBOL", Invoke: true, Group: true}).
		Range(0x3041, 0x309F, "HIRAGANA").
		Range(0x30A1, 0x30FF, "KATAKANA").
		Range(0x4E00, 0x9FFF, "KANJI").
		Unknown(dictionary.UnknownEntry{Class: dictionary.DefaultClass, LeftID: idNoun, RightID: idNoun, Cost: 5000, Feature: "名詞,一般,*,*,*,*,*"}).
		Unknown(dictionary.UnknownEntry{Class: "SPACE", LeftID: idSymbol, RightID: idSymbol, Cost: 1000, Feature: "記号,空白,*,*,*,*,*"}).
		Unknown(dictionary.UnknownEntry{Class: "KANJI", LeftID: idNoun, RightID: idNoun, Cost: 5000, Feature: "名詞,一般,*,*,*,*,*"}).
		Unknown(dictionary.UnknownEntry{Class: "HIRAGANA", LeftID: idNoun, RightID: idNoun, Cost: 4000, Feature: "名詞,一般,*,*,*,*,*"}).
		Unknown(dictionary.UnknownEntry{Class: "KATAKANA", LeftID: idNoun, RightID: idNoun, Cost: 2000, Feature: "名詞,一般,*,*,*,*,*"}).
		Unknown(dictionary.UnknownEntry{Class: "ALPHA", LeftID: idNoun, RightID: idNoun, Cost: 2000, Feature: "名詞,固有名詞,組織,*,*,*,*"}).
		Unknown(dictionary.UnknownEntry{Class: "NUMERIC", LeftID: idNoun, RightID: idNoun, Cost: 2000, Feature: "名詞,数,*,*,*,*,*"}).
		Unknown(dictionary.UnknownEntry{Class: "SYMBOL", LeftID: idSymbol, RightID: idSymbol, Cost: 1000, Feature: "記号,一般,*,*,*,*,*"}).
		Build()
	if err != nil {
		panic(fmt.Sprintf("testutil: sample dictionary: %v", err))
	}

	return d
}
