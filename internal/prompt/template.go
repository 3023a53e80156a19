package prompt

import (
	"fmt"
	"os"

	"github.com/Veraticus/radstage/internal/config"
)

// DefaultTemplate instructs the model to stage a Japanese lung cancer
// radiology report. It defines every T, N and M category and asks for a JSON
// object with fields t, n and m.
const DefaultTemplate = `## 指示
肺癌の読影レポート(画像診断報告書)から，肺癌のステージ(進行度)を判定してください。
肺癌のステージはT因子・N因子・M因子で判定されます。3つの因子の説明を元に与える読影レポートについて3つの因子を判定してください。

## 分類仕様

### T因子(原発腫瘍サイズ)
- TX: 原発腫瘍の存在が判定できない，あるいは喀痰または気管支洗浄液細胞診でのみ陽性で画像診断や気管支鏡では観察できない
- T0: 原発腫瘍を認めない
- Tis: 上皮内癌（carcinoma in situ）肺野型の場合は、充実成分径0cmかつ病変全体径≦3cm
- T1: 腫瘍の充実成分径<=3cm, 肺または臓側胸膜に覆われている，葉気管支より中枢への浸潤が気管支鏡上認められない（すなわち主気管支に及んでいない）
  - T1mi: 微少浸潤性腺癌:部分充実型を示し，充実成分径<=0.5cmかつ病変全体径<=3cm
  - T1a: 充実成分径<=1cmでかつTis・T1miには相当しない
  - T1b: 充実成分径>1cmでかつ<=2cm
  - T1c: 充実成分径>2cmでかつ<=3cm
- T2: 充実成分径>3cmでかつ<=5cm、または充実成分径<=3cmでも以下のいずれかであるもの。主気管支に及ぶが気管分岐部には及ばない。臓側胸膜に浸潤。肺門まで連続する部分的または一側全体の無気肺か閉塞性肺炎がある
  - T2a: 充実成分径>3cmでかつ<=4cm
  - T2b: 充実成分径>4cmでかつ<=5cm
- T3: 充実成分径>5cmでかつ≦7cm，または充実成分径≦5cmでも以下のいずれかであるもの。壁側胸膜、胸壁（superior sulcus tumorを含む）、横隔神経、心膜のいずれかに直接浸潤 同一葉内の不連続な副腫瘍結節
- T4: 充実成分径>7cm、または大きさを問わず横隔膜、縦隔、心臓、大血管、気管、反回神経、食道、椎体、気管分岐部への浸潤、あるいは同側の異なった肺葉内の副腫瘍結節

### N因子(所属リンパ節)
- N0: 所属リンパ節転移なし
- N1: 同側の気管支周囲かつ/または同側肺門，肺内リンパ節への転移で原発腫瘍の直接浸潤を含める
- N2: 同側縦隔かつ/または気管分岐下リンパ節への転移
- N3: 対側縦隔，対側肺門，同側あるいは対側の前斜角筋，鎖骨上窩リンパ節への転移

### M因子(遠隔転移)
- M0: 遠隔転移なし
- M1a: 遠隔転移あり、対側肺内の副腫瘍結節、胸膜または心膜の結節、悪性胸水（同側・対側）、悪性心嚢水
- M1b: 遠隔転移あり、肺以外の一臓器への単発遠隔転移がある
- M1c: 遠隔転移あり、肺以外の一臓器または多臓器への多発遠隔転移がある

## 出力フォーマット

JSONでT因子をt, N因子をn, M因子をmとして出力してください。

## 入出力例

${few_shots}

## 処理対象レポート

input:
${test_input}

output:
`

// LoadTemplate reads a template from path, or returns DefaultTemplate when
// path is empty. The template is validated before it is returned.
func LoadTemplate(path string) (string, error) {
	if path == "" {
		return DefaultTemplate, nil
	}

	expanded := config.ExpandPath(path)
	data, err := os.ReadFile(expanded) //nolint:gosec // operator-supplied template path
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", expanded, err)
	}

	template := string(data)
	if err := Validate(template); err != nil {
		return "", fmt.Errorf("invalid template %s: %w", expanded, err)
	}
	return template, nil
}
