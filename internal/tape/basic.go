package tape

import (
	"fmt"
	"strconv"
	"strings"
)

// playerEntryName is the content name of the animation player program entry.
const playerEntryName = "PROG Animation player"

// joinProgram assembles BASIC source the way the 4050 stores it: CR line
// terminators, with the customary trailing space-CR-CR.
func joinProgram(lines []string) []byte {
	lines = append(lines, "", "")
	return []byte(strings.Join(lines, "\r"))
}

// StillPlayer returns the BASIC program that draws a single image stored at
// tape file fileNumber+1, reading records until the "X" sentinel.
func StillPlayer(fileNumber int) []byte {
	return joinProgram([]string{
		"100 INIT",
		"110 PAGE",
		fmt.Sprintf("120 FIND@5:%d", fileNumber+1),
		"130 DIM S$(8190)",
		"140 READ@5:S$",
		`150 IF S$="X" THEN 200`,
		`160 CALL "RDRAW",S$,1,0,0`,
		"170 GO TO 130",
		"200 END ",
	})
}

// AnimationPlayer returns the BASIC program that plays numFrames frames
// stored at tape files fileNumber+1 through fileNumber+numFrames.
//
// With automateDelay > 0 the program prints a shutter trigger string to the
// Option 10 printer interface at GPIB address @53 after each frame, then
// sleeps via the TransEra 741 RTC !PAUSE call before advancing. With
// automateDelay <= 0 those lines are commented out and the operator advances
// frames with user-definable key 1.
func AnimationPlayer(fileNumber, numFrames int, automateDelay float64) []byte {
	rem := "REM "
	stop := "260"
	if automateDelay > 0 {
		rem = ""
		stop = "210"
	}
	return joinProgram([]string{
		"1 GO TO 100",
		"4 GO TO 130",
		"100 INIT",
		"110 DIM S$(8190)",
		fmt.Sprintf("120 LET F=%d", fileNumber),
		"130 F=F+1",
		fmt.Sprintf("140 IF F>%d THEN 240", fileNumber+numFrames),
		"150 FIND@5:F",
		"160 PAGE",
		"170 READ@5:S$",
		fmt.Sprintf(`180 IF S$="X" THEN %s`, stop),
		`190 CALL "RDRAW",S$,1,0,0`,
		"200 GO TO 170",
		fmt.Sprintf(`210 %sPRINT @53:"AAAA"`, rem),
		fmt.Sprintf(`220 %sCALL "!PAUSE",%s`, rem,
			strconv.FormatFloat(automateDelay, 'g', -1, 64)),
		"230 GO TO 130",
		"240 HOME",
		`250 PRINT "No more frames"`,
		"260 END ",
	})
}
