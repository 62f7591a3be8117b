package logger

import (
	"log"
	"os"
)

func New(path string) *log.Logger {
	if len(path) == 0 {
		return log.New(os.Stdout, "SVM ", log.Ldate|log.Ltime|log.Lshortfile)
	} else {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0666)
		if err != nil {
			log.Fatal(err)
		}
		l := log.New(f, "SVM ", log.Ldate|log.Ltime|log.Lshortfile)
		l.Printf("Initializing %s", path)
		return l
	}
}
