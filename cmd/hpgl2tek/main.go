// hpgl2tek converts plotter files into Tektronix terminal byte streams: raw
// 4010 commands, 4050-series R12 tape records, a Flash Drive archive with a
// BASIC draw program, or a PNG preview.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ivlev/hpgl2tek/internal/config"
	"github.com/ivlev/hpgl2tek/internal/hpgl"
	"github.com/ivlev/hpgl2tek/internal/raster"
	"github.com/ivlev/hpgl2tek/internal/tape"
	"github.com/ivlev/hpgl2tek/internal/tek"
	"github.com/ivlev/hpgl2tek/internal/transform"
)

func main() {
	outputPtr := flag.String("output", "", "Выходной файл (по умолчанию stdout)")
	devicePtr := flag.String("device", "tek4010", "Устройство: tek4010, tek4050r12, tek4050r12zip, png")
	numberPtr := flag.Int("number", 1, "Номер файла на ленте (для tek4050r12zip)")
	transformPtr := flag.String("transform", "", "Трансформации: fh, fv, s2, r90, x10, y-5 через '!'; группы через ',' с префиксом 'N:' для N-го файла")
	linesPtr := flag.String("lines", "", "Дополнительные отрезки x1!y1!x2!y2 через ','")
	flag.Parse()

	cfg := &config.Config{
		OutputPath: *outputPtr,
		Device:     *devicePtr,
		FileNumber: *numberPtr,
		Transform:  *transformPtr,
		Lines:      *linesPtr,
	}

	var files []io.Reader
	if flag.NArg() == 0 {
		files = append(files, os.Stdin)
	}
	for _, path := range flag.Args() {
		f, err := os.Open(path)
		if err != nil {
			log.Fatalf("[-] Ошибка: %v", err)
		}
		defer f.Close()
		files = append(files, f)
	}

	strokes, err := transform.Gather(files, cfg.Transform, cfg.Lines)
	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}
	fmt.Fprintf(os.Stderr, "[*] Файлов: %d | Штрихов: %d\n", len(files), len(strokes))

	out := os.Stdout
	if cfg.OutputPath != "" {
		out, err = os.Create(cfg.OutputPath)
		if err != nil {
			log.Fatalf("[-] Ошибка: %v", err)
		}
		defer out.Close()
	}

	if err := convert(out, cfg, strokes); err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}
	if cfg.OutputPath != "" {
		fmt.Fprintf(os.Stderr, "[+++] Готово! Результат: %s\n", cfg.OutputPath)
	}
}

func convert(out io.Writer, cfg *config.Config, strokes hpgl.Strokes) error {
	switch cfg.Device {
	case "tek4010":
		data, err := tek.ToTek4010(strokes)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err

	case "tek4050r12":
		data, err := tek.ToTek4050R12(strokes)
		if err != nil {
			return err
		}
		_, err = out.Write(tek.TapeRecords(data))
		return err

	case "tek4050r12zip":
		data, err := tek.ToTek4050R12(strokes)
		if err != nil {
			return err
		}
		return tape.WriteStillArchive(out, cfg.FileNumber, tek.TapeRecords(data))

	case "png":
		return raster.EncodePNG(out, strokes)
	}
	return fmt.Errorf("неизвестное устройство %q", cfg.Device)
}
