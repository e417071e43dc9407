// zipchop splits a long Flash Drive animation archive into chunks the tape
// emulator handles comfortably, each with its own rebounded player program.
package main

import (
	"archive/zip"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/ivlev/hpgl2tek/internal/tape"
)

func main() {
	prefixPtr := flag.String("prefix", "", "Префикс выходных файлов (по умолчанию имя архива без .zip)")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("[-] Ошибка: укажите архив анимации, например: zipchop animation.zip")
	}
	path := flag.Arg(0)

	prefix := *prefixPtr
	if prefix == "" {
		prefix = strings.TrimSuffix(path, ".zip")
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}
	defer zr.Close()

	player, err := tape.FindPlayer(&zr.Reader)
	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}
	rc, err := player.Open()
	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}
	program, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}

	first, final, err := tape.PlayerBounds(program)
	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}

	frames, err := tape.Frames(&zr.Reader)
	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}
	if final-first+1 != len(frames) {
		log.Fatalf("[-] Ошибка: плеер рассчитан на кадры %d..%d, а в архиве их %d",
			first, final, len(frames))
	}
	fmt.Printf("[*] Кадров: %d | Частей: %d\n",
		len(frames), (len(frames)+tape.MaxChunkFrames-1)/tape.MaxChunkFrames)

	for i := 0; i*tape.MaxChunkFrames < len(frames); i++ {
		lo := i * tape.MaxChunkFrames
		hi := lo + tape.MaxChunkFrames
		if hi > len(frames) {
			hi = len(frames)
		}

		name := prefix + tape.ChunkSuffix(i) + ".zip"
		if err := writeChunkFile(name, program, frames[lo:hi]); err != nil {
			log.Fatalf("[-] Ошибка: %v", err)
		}
		fmt.Printf("[>] %s: кадры %d..%d\n", name, lo, hi-1)
	}
	fmt.Println("[+++] Готово!")
}

func writeChunkFile(name string, program []byte, frames []*zip.File) error {
	out, err := os.Create(name)
	if err != nil {
		return err
	}
	err = tape.WriteChunk(out, program, frames)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(name)
	}
	return err
}
