package ron

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const auraConfig = `(
    brightness: Med,
    current_mode: Static,
    builtins: {
        Static: (
            mode: Static,
            zone: None,
            colour1: (
                r: 166,
                g: 0,
                b: 0,
            ),
            colour2: (
                r: 0,
                g: 0,
                b: 0,
            ),
            speed: Med,
            direction: Right,
        ),
        Breathe: (
            mode: Breathe,
            zone: None,
            colour1: (
                r: 166,
                g: 0,
                b: 0,
            ),
            colour2: (
                r: 0,
                g: 139,
                b: 139,
            ),
            speed: Med,
            direction: Right,
        ),
    },
    multizone: None,
    multizone_on: false,
    enabled: (
        states: [
            (
                zone: Keyboard,
                boot: true,
                awake: true,
                sleep: true,
                shutdown: true,
            ),
        ],
    ),
)
`

const asusdConfig = `(
    charge_control_end_threshold: 80,
    panel_od: false,
    boot_sound: false,
    mini_led_mode: false,
    disable_nvidia_powerd_on_battery: true,
    ac_command: "",
    bat_command: "",
    platform_policy_linked_epp: true,
    platform_policy_on_battery: Quiet,
    platform_policy_on_ac: Performance,
    ppt_pl1_spl: None,
    nv_temp_target: Some(87),
    throttle_scale: 1.5,
    fan_curves: [],
    extra: {},
    unit: (),
)
`

func TestParse_RoundTripAura(t *testing.T) {
	// GIVEN
	data := []byte(auraConfig)

	// WHEN
	root, err := Parse(data)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, auraConfig, string(root.Format())+"\n")
}

func TestParse_RoundTripAsusd(t *testing.T) {
	// GIVEN
	data := []byte(asusdConfig)

	// WHEN
	root, err := Parse(data)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, asusdConfig, string(root.Format())+"\n")
}

func TestParse_ValueKinds(t *testing.T) {
	// GIVEN
	data := []byte(asusdConfig)

	// WHEN
	root, err := Parse(data)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, KindStruct, root.Kind)
	assert.Equal(t, KindInt, root.Field("charge_control_end_threshold").Kind)
	assert.Equal(t, KindIdent, root.Field("panel_od").Kind)
	assert.Equal(t, KindString, root.Field("ac_command").Kind)
	assert.Equal(t, KindFloat, root.Field("throttle_scale").Kind)
	assert.Equal(t, KindTuple, root.Field("nv_temp_target").Kind)
	assert.Equal(t, "Some", root.Field("nv_temp_target").Name)
	assert.Equal(t, KindList, root.Field("fan_curves").Kind)
	assert.Equal(t, KindMap, root.Field("extra").Kind)

	limit, err := root.Field("charge_control_end_threshold").Int()
	require.NoError(t, err)
	assert.EqualValues(t, 80, limit)
}

func TestPath(t *testing.T) {
	// GIVEN
	root, err := Parse([]byte(auraConfig))
	require.NoError(t, err)

	// WHEN
	green := root.Path("builtins", "Breathe", "colour2", "g")

	// THEN
	require.NotNil(t, green)
	assert.Equal(t, "139", green.Text())
	assert.Nil(t, root.Path("builtins", "Pulse", "colour1"))
	assert.Nil(t, root.Path("current_mode", "x"))
}

func TestSetField(t *testing.T) {
	// GIVEN
	root, err := Parse([]byte(auraConfig))
	require.NoError(t, err)

	// WHEN
	err = root.SetField("current_mode", Ident("Breathe"))
	require.NoError(t, err)
	colour := root.Path("builtins", "Breathe", "colour1")
	require.NoError(t, colour.SetField("r", Int(0)))
	require.NoError(t, colour.SetField("g", Int(255)))

	// THEN
	assert.Equal(t, "Breathe", root.Field("current_mode").Text())
	formatted := string(root.Format())
	assert.Contains(t, formatted, "current_mode: Breathe,")
	assert.Contains(t, formatted, "                r: 0,\n                g: 255,\n                b: 0,")
	// the static block is untouched
	assert.Equal(t, "166", root.Path("builtins", "Static", "colour1", "r").Text())
}

func TestSetField_AppendsMissingField(t *testing.T) {
	// GIVEN
	root, err := Parse([]byte(`(a: 1)`))
	require.NoError(t, err)

	// WHEN
	err = root.SetField("b", String("x"))

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "(\n    a: 1,\n    b: \"x\",\n)", string(root.Format()))
}

func TestSetField_NotAStruct(t *testing.T) {
	// GIVEN
	root, err := Parse([]byte(`[1, 2]`))
	require.NoError(t, err)

	// WHEN
	err = root.SetField("a", Int(1))

	// THEN
	assert.Error(t, err)
}

func TestParse_CommentsAndNamedStructs(t *testing.T) {
	// GIVEN
	data := []byte(`// header comment
Config ( /* inline */
    name: "tuf", // trailing
    point: Point(x: -1, y: 0x1F),
    chars: ['a', '\''],
    raw: r#"a "quoted" b"#,
)`)

	// WHEN
	root, err := Parse(data)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "Config", root.Name)
	assert.Equal(t, "tuf", root.Field("name").Text())
	assert.Equal(t, "-1", root.Path("point", "x").Text())
	y, err := root.Path("point", "y").Int()
	require.NoError(t, err)
	assert.EqualValues(t, 31, y)
	assert.Len(t, root.Field("chars").Items, 2)
	assert.Equal(t, KindString, root.Field("raw").Kind)
}

func TestParse_SyntaxErrors(t *testing.T) {
	inputs := []string{
		``,
		`(a: 1`,
		`(a 1)`,
		`{Static: }`,
		`[1 2]`,
		`"unterminated`,
		`(a: 1) trailing`,
		`/* open`,
	}
	for _, input := range inputs {
		_, err := Parse([]byte(input))
		assert.ErrorIs(t, err, ErrSyntax, "input %q", input)
	}
}

func TestParse_ErrorPosition(t *testing.T) {
	// WHEN
	_, err := Parse([]byte("(\n    a: 1\n    b: 2,\n)"))

	// THEN
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestPatch_PreservesTrailingNewline(t *testing.T) {
	// WHEN
	result, err := Patch([]byte(asusdConfig), func(root *Value) error {
		return root.SetField("charge_control_end_threshold", Int(60))
	})

	// THEN
	require.NoError(t, err)
	assert.Contains(t, string(result), "charge_control_end_threshold: 60,")
	assert.Equal(t, byte('\n'), result[len(result)-1])
}
